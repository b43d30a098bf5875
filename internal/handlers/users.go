package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stayhub/stayhub-backend/internal/services"
	"gorm.io/gorm"
)

// GetUserData returns the caller's role and recently searched cities.
func GetUserData(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}

		cities, err := services.GetRecentCities(c.Request.Context(), userID)
		if err != nil {
			cities = []string{}
		}

		c.JSON(200, gin.H{
			"success":              true,
			"role":                 user.Role,
			"recentSearchedCities": cities,
		})
	}
}

type searchedCityInput struct {
	RecentSearchedCity string `json:"recentSearchedCity" binding:"required"`
}

// StoreRecentSearchedCity remembers a city search, keeping the latest three.
func StoreRecentSearchedCity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input searchedCityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := services.PushRecentCity(c.Request.Context(), userID, input.RecentSearchedCity); err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "Recent searched city stored successfully"})
	}
}
