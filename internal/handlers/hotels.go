package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/models"
	"gorm.io/gorm"
)

type registerHotelInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	City    string `json:"city" binding:"required"`
}

// RegisterHotel creates the caller's hotel and promotes them to owner. One
// hotel per account.
func RegisterHotel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input registerHotelInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		var existing models.Hotel
		if err := db.Where("owner_id = ?", userID).First(&existing).Error; err == nil {
			c.JSON(400, gin.H{"success": false, "message": "Hotel already exists"})
			return
		}

		hotel := models.Hotel{
			Name:    input.Name,
			Address: input.Address,
			Contact: input.Contact,
			City:    input.City,
			OwnerID: userID,
		}

		if err := db.Create(&hotel).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to register hotel"})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("role", models.UserRoleOwner).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to update user role"})
			return
		}

		c.JSON(201, gin.H{"success": true, "hotel": hotel, "message": "Hotel registered successfully"})
	}
}
