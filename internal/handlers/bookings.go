package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stayhub/stayhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// parseDate accepts both full timestamps and plain calendar dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

type availabilityInput struct {
	Room         uint   `json:"room" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// CheckAvailability reports whether a room is free for a requested stay. The
// answer is advisory: the worker re-checks at persistence time.
func CheckAvailability(store booking.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input availabilityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		checkIn, err := parseDate(input.CheckInDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkInDate"})
			return
		}
		checkOut, err := parseDate(input.CheckOutDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkOutDate"})
			return
		}

		isAvailable, err := booking.IsAvailable(c.Request.Context(), store, input.Room, checkIn, checkOut)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "isAvailable": isAvailable})
	}
}

type bookInput struct {
	Room         uint   `json:"room" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
	Guests       int    `json:"guests" binding:"required,min=1"`
}

// Book accepts a booking request for asynchronous processing. A 201 means
// "accepted", not "confirmed": the worker persists the booking after a second
// availability check, and the final outcome is visible via GET /bookings/user
// or the websocket push.
func Book(store booking.Store, queue booking.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input bookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		checkIn, err := parseDate(input.CheckInDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkInDate"})
			return
		}
		checkOut, err := parseDate(input.CheckOutDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkOutDate"})
			return
		}

		room, err := store.GetRoomWithHotel(c.Request.Context(), input.Room)
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Room not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		totalPrice, err := booking.TotalPrice(room.PricePerNight, checkIn, checkOut)
		if errors.Is(err, booking.ErrInvalidDateRange) {
			c.JSON(400, gin.H{"success": false, "message": "Check-out date must be after check-in date"})
			return
		}

		isAvailable, err := booking.IsAvailable(c.Request.Context(), store, input.Room, checkIn, checkOut)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		if !isAvailable {
			c.JSON(400, gin.H{"success": false, "message": "Room is not available"})
			return
		}

		msg := booking.Message{
			ID:           uuid.NewString(),
			Action:       booking.ActionCreate,
			UserID:       userID,
			RoomID:       room.ID,
			HotelID:      room.HotelID,
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			TotalPrice:   totalPrice,
			Guests:       input.Guests,
		}

		if err := booking.Enqueue(c.Request.Context(), queue, msg); err != nil {
			logger.ErrorLogger.Errorf("enqueue booking create failed: %v", err)
			c.JSON(500, gin.H{"success": false, "message": "Failed to accept booking"})
			return
		}

		c.JSON(201, gin.H{
			"success": true,
			"message": "Booking accepted for processing",
			"booking": gin.H{
				"_id":          msg.ID,
				"room":         msg.RoomID,
				"hotel":        msg.HotelID,
				"checkInDate":  msg.CheckInDate,
				"checkOutDate": msg.CheckOutDate,
				"guests":       msg.Guests,
				"totalPrice":   msg.TotalPrice,
				"status":       models.BookingStatusPending,
			},
		})
	}
}

// GetUserBookings lists the caller's bookings, newest first.
func GetUserBookings(store booking.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		bookings, err := store.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "bookings": bookings})
	}
}

// GetHotelBookings is the owner dashboard: all bookings for the owner's hotel
// with totals.
func GetHotelBookings(db *gorm.DB, store booking.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var hotel models.Hotel
		if err := db.Where("owner_id = ?", userID).First(&hotel).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "Hotel not found"})
			return
		}

		bookings, err := store.ListByHotel(c.Request.Context(), hotel.ID)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		var totalRevenue float64
		for _, b := range bookings {
			totalRevenue += b.TotalPrice
		}

		c.JSON(200, gin.H{
			"success":       true,
			"bookings":      bookings,
			"totalBookings": len(bookings),
			"totalRevenue":  totalRevenue,
		})
	}
}

type updateBookingInput struct {
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
	Guests       int    `json:"guests" binding:"required,min=1"`
}

// UpdateBooking enqueues a date/guest change for an existing booking. Price
// and room are never changed by this path.
func UpdateBooking(store booking.Store, queue booking.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		userID := c.GetUint("userId")
		role := c.GetString("role")

		var input updateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		checkIn, err := parseDate(input.CheckInDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkInDate"})
			return
		}
		checkOut, err := parseDate(input.CheckOutDate)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid checkOutDate"})
			return
		}
		if !checkOut.After(checkIn) {
			c.JSON(400, gin.H{"success": false, "message": "Check-out date must be after check-in date"})
			return
		}

		b, err := store.Get(c.Request.Context(), bookingID)
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Booking not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		if b.UserID != userID && role != string(models.UserRoleAdmin) {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		msg := booking.Message{
			ID:           b.ID,
			Action:       booking.ActionUpdate,
			UserID:       b.UserID,
			RoomID:       b.RoomID,
			HotelID:      b.HotelID,
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			TotalPrice:   b.TotalPrice,
			Guests:       input.Guests,
		}

		if err := booking.Enqueue(c.Request.Context(), queue, msg); err != nil {
			logger.ErrorLogger.Errorf("enqueue booking update failed: %v", err)
			c.JSON(500, gin.H{"success": false, "message": "Failed to accept update"})
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "Booking update accepted for processing"})
	}
}

// DeleteBooking enqueues a soft cancellation.
func DeleteBooking(store booking.Store, queue booking.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		userID := c.GetUint("userId")
		role := c.GetString("role")

		b, err := store.Get(c.Request.Context(), bookingID)
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Booking not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		if b.UserID != userID && role != string(models.UserRoleAdmin) {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		msg := booking.Message{
			ID:      b.ID,
			Action:  booking.ActionDelete,
			UserID:  b.UserID,
			RoomID:  b.RoomID,
			HotelID: b.HotelID,
			// Dates carried for traceability; delete ignores them.
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			Guests:       b.Guests,
			TotalPrice:   b.TotalPrice,
		}

		if err := booking.Enqueue(c.Request.Context(), queue, msg); err != nil {
			logger.ErrorLogger.Errorf("enqueue booking delete failed: %v", err)
			c.JSON(500, gin.H{"success": false, "message": "Failed to accept cancellation"})
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "Booking cancellation accepted for processing"})
	}
}
