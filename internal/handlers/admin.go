package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/models"
	"gorm.io/gorm"
)

// Admin oversight endpoints. All of these sit behind RequireRoles("admin").

func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		c.JSON(200, gin.H{"success": true, "users": users})
	}
}

func ListHotels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hotels []models.Hotel
		if err := db.Preload("Owner").Order("created_at DESC").Find(&hotels).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		c.JSON(200, gin.H{"success": true, "hotels": hotels})
	}
}

// ListBookings returns every booking, soft-deleted ones included, for audit.
func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bookings []models.Booking
		err := db.Preload("Room").
			Preload("Hotel").
			Preload("User").
			Order("created_at DESC").
			Find(&bookings).Error
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		c.JSON(200, gin.H{"success": true, "bookings": bookings})
	}
}
