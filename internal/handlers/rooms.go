package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stayhub/stayhub-backend/internal/services"
	"github.com/stayhub/stayhub-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateRoom adds a room to the caller's hotel. Images arrive as multipart
// files and are uploaded to storage; amenities arrive as a JSON array string.
func CreateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var hotel models.Hotel
		if err := db.Where("owner_id = ?", userID).First(&hotel).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "Hotel not found"})
			return
		}

		roomType := c.PostForm("roomType")
		priceStr := c.PostForm("pricePerNight")
		if roomType == "" || priceStr == "" {
			c.JSON(400, gin.H{"success": false, "message": "roomType and pricePerNight are required"})
			return
		}

		pricePerNight, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || pricePerNight <= 0 {
			c.JSON(400, gin.H{"success": false, "message": "Invalid pricePerNight"})
			return
		}

		var amenities []string
		if raw := c.PostForm("amenities"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &amenities); err != nil {
				c.JSON(400, gin.H{"success": false, "message": "Invalid amenities"})
				return
			}
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid form data"})
			return
		}

		var images []string
		for _, file := range form.File["images"] {
			url, err := services.UploadImage(file, "rooms")
			if err != nil {
				logger.ErrorLogger.Errorf("room image upload failed: %v", err)
				c.JSON(500, gin.H{"success": false, "message": "Failed to upload image"})
				return
			}
			images = append(images, url)
		}

		amenitiesJSON, _ := json.Marshal(amenities)
		imagesJSON, _ := json.Marshal(images)

		room := models.Room{
			HotelID:       hotel.ID,
			RoomType:      roomType,
			PricePerNight: pricePerNight,
			Amenities:     datatypes.JSON(amenitiesJSON),
			Images:        datatypes.JSON(imagesJSON),
			IsAvailable:   true,
		}

		if err := db.Create(&room).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to create room"})
			return
		}

		c.JSON(201, gin.H{"success": true, "room": room, "message": "Room created successfully"})
	}
}

// GetAllRooms lists rooms whose owners have them toggled available.
func GetAllRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []models.Room
		err := db.Where("is_available = ?", true).
			Preload("Hotel").
			Preload("Hotel.Owner").
			Order("created_at DESC").
			Find(&rooms).Error
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "rooms": rooms})
	}
}

// GetOwnerRooms lists every room of the caller's hotel.
func GetOwnerRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var hotel models.Hotel
		if err := db.Where("owner_id = ?", userID).First(&hotel).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "Hotel not found"})
			return
		}

		var rooms []models.Room
		if err := db.Where("hotel_id = ?", hotel.ID).Preload("Hotel").Find(&rooms).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "rooms": rooms})
	}
}

type toggleRoomInput struct {
	RoomID uint `json:"roomId" binding:"required"`
}

// ToggleRoomAvailability flips the owner-controlled listing toggle. This is
// independent from date-based availability.
func ToggleRoomAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input toggleRoomInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		var room models.Room
		if err := db.Preload("Hotel").First(&room, input.RoomID).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "Room not found"})
			return
		}

		if room.Hotel.OwnerID != userID {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		room.IsAvailable = !room.IsAvailable
		if err := db.Save(&room).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to update room"})
			return
		}

		c.JSON(200, gin.H{"success": true, "room": room})
	}
}
