package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRoom(store *fakeStore, roomID, hotelID uint, price float64) {
	store.rooms[roomID] = &models.Room{
		HotelID:       hotelID,
		RoomType:      "Double",
		PricePerNight: price,
		IsAvailable:   true,
	}
	store.rooms[roomID].ID = roomID
}

func seedBooking(store *fakeStore, id string, userID, roomID, hotelID uint, checkIn, checkOut time.Time) *models.Booking {
	b := &models.Booking{
		ID:            id,
		UserID:        userID,
		RoomID:        roomID,
		HotelID:       hotelID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        2,
		TotalPrice:    500,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	store.bookings[id] = b
	return b
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAvailabilityFreeRoom(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 1, 100)

	r := gin.New()
	r.POST("/check", CheckAvailability(store))

	w := postJSON(t, r, "/check", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-10",
		"checkOutDate": "2024-01-15",
	})

	require.Equal(t, 200, w.Code)
	var resp struct {
		Success     bool `json:"success"`
		IsAvailable bool `json:"isAvailable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.IsAvailable)
}

func TestCheckAvailabilityConflict(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 1, 100)
	seedBooking(store, "b1", 9, 3, 1, day(2024, 1, 10), day(2024, 1, 15))

	r := gin.New()
	r.POST("/check", CheckAvailability(store))

	w := postJSON(t, r, "/check", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-12",
		"checkOutDate": "2024-01-20",
	})

	require.Equal(t, 200, w.Code)
	var resp struct {
		IsAvailable bool `json:"isAvailable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsAvailable)
}

func TestCheckAvailabilityBackToBack(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 1, 100)
	seedBooking(store, "b1", 9, 3, 1, day(2024, 1, 10), day(2024, 1, 15))

	r := gin.New()
	r.POST("/check", CheckAvailability(store))

	w := postJSON(t, r, "/check", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-15",
		"checkOutDate": "2024-01-20",
	})

	require.Equal(t, 200, w.Code)
	var resp struct {
		IsAvailable bool `json:"isAvailable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsAvailable)
}

func TestBookEnqueuesCreateMessage(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 2, 100)
	queue := &fakeQueue{}

	r := gin.New()
	r.POST("/book", authAs(7, "guest"), Book(store, queue))

	w := postJSON(t, r, "/book", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-01",
		"checkOutDate": "2024-01-04",
		"guests":       2,
	})

	require.Equal(t, 201, w.Code)
	require.Len(t, queue.sent, 1)

	env, err := booking.DecodeEnvelope(queue.sent[0])
	require.NoError(t, err)
	assert.Equal(t, booking.KindBooking, env.Type)
	assert.Equal(t, booking.ActionCreate, env.Data.Action)
	assert.NotEmpty(t, env.Data.ID)
	assert.Equal(t, uint(7), env.Data.UserID)
	assert.Equal(t, uint(3), env.Data.RoomID)
	assert.Equal(t, uint(2), env.Data.HotelID)
	assert.Equal(t, 300.0, env.Data.TotalPrice)

	// Accepted, not confirmed: nothing is persisted on the request path.
	assert.Empty(t, store.bookings)

	var resp struct {
		Message string `json:"message"`
		Booking struct {
			ID     string `json:"_id"`
			Status string `json:"status"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Booking accepted for processing", resp.Message)
	assert.Equal(t, env.Data.ID, resp.Booking.ID)
	assert.Equal(t, string(models.BookingStatusPending), resp.Booking.Status)
}

func TestBookUnknownRoom(t *testing.T) {
	store := newFakeStore()
	queue := &fakeQueue{}

	r := gin.New()
	r.POST("/book", authAs(7, "guest"), Book(store, queue))

	w := postJSON(t, r, "/book", gin.H{
		"room":         99,
		"checkInDate":  "2024-01-01",
		"checkOutDate": "2024-01-04",
		"guests":       2,
	})

	assert.Equal(t, 404, w.Code)
	assert.Empty(t, queue.sent)
}

func TestBookInvalidDateRange(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 2, 100)
	queue := &fakeQueue{}

	r := gin.New()
	r.POST("/book", authAs(7, "guest"), Book(store, queue))

	w := postJSON(t, r, "/book", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-04",
		"checkOutDate": "2024-01-01",
		"guests":       2,
	})

	assert.Equal(t, 400, w.Code)
	assert.Empty(t, queue.sent)
}

func TestBookRejectsOverlappingStay(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 2, 100)
	seedBooking(store, "b1", 9, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	queue := &fakeQueue{}

	r := gin.New()
	r.POST("/book", authAs(7, "guest"), Book(store, queue))

	w := postJSON(t, r, "/book", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-12",
		"checkOutDate": "2024-01-20",
		"guests":       2,
	})

	assert.Equal(t, 400, w.Code)
	assert.Empty(t, queue.sent)
}

func TestBookQueueFailure(t *testing.T) {
	store := newFakeStore()
	seedRoom(store, 3, 2, 100)
	queue := &fakeQueue{sendErr: errors.New("sqs unreachable")}

	r := gin.New()
	r.POST("/book", authAs(7, "guest"), Book(store, queue))

	w := postJSON(t, r, "/book", gin.H{
		"room":         3,
		"checkInDate":  "2024-01-01",
		"checkOutDate": "2024-01-04",
		"guests":       2,
	})

	// No booking id is handed out when the request was not durably accepted.
	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "_id")
}

func TestUpdateBookingEnqueues(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", 7, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	queue := &fakeQueue{}

	r := gin.New()
	r.PATCH("/bookings/:id", authAs(7, "guest"), UpdateBooking(store, queue))

	raw, _ := json.Marshal(gin.H{
		"checkInDate":  "2024-01-11",
		"checkOutDate": "2024-01-16",
		"guests":       3,
	})
	req := httptest.NewRequest(http.MethodPatch, "/bookings/b1", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Len(t, queue.sent, 1)

	env, err := booking.DecodeEnvelope(queue.sent[0])
	require.NoError(t, err)
	assert.Equal(t, booking.ActionUpdate, env.Data.Action)
	assert.Equal(t, "b1", env.Data.ID)
	assert.Equal(t, 3, env.Data.Guests)
	// The request path only enqueues; the row is untouched until the worker runs.
	assert.Equal(t, 2, store.bookings["b1"].Guests)
}

func TestUpdateBookingForbiddenForOtherUser(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", 9, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	queue := &fakeQueue{}

	r := gin.New()
	r.PATCH("/bookings/:id", authAs(7, "guest"), UpdateBooking(store, queue))

	raw, _ := json.Marshal(gin.H{
		"checkInDate":  "2024-01-11",
		"checkOutDate": "2024-01-16",
		"guests":       3,
	})
	req := httptest.NewRequest(http.MethodPatch, "/bookings/b1", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Empty(t, queue.sent)
}

func TestDeleteBookingEnqueues(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", 7, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	queue := &fakeQueue{}

	r := gin.New()
	r.DELETE("/bookings/:id", authAs(7, "guest"), DeleteBooking(store, queue))

	req := httptest.NewRequest(http.MethodDelete, "/bookings/b1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Len(t, queue.sent, 1)

	env, err := booking.DecodeEnvelope(queue.sent[0])
	require.NoError(t, err)
	assert.Equal(t, booking.ActionDelete, env.Data.Action)
	assert.Equal(t, "b1", env.Data.ID)
	assert.False(t, store.bookings["b1"].IsDeleted)
}

func TestDeleteBookingAdminOverride(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", 9, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	queue := &fakeQueue{}

	r := gin.New()
	r.DELETE("/bookings/:id", authAs(1, "admin"), DeleteBooking(store, queue))

	req := httptest.NewRequest(http.MethodDelete, "/bookings/b1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Len(t, queue.sent, 1)
}

func TestGetUserBookings(t *testing.T) {
	store := newFakeStore()
	seedBooking(store, "b1", 7, 3, 2, day(2024, 1, 10), day(2024, 1, 15))
	seedBooking(store, "b2", 9, 3, 2, day(2024, 2, 10), day(2024, 2, 15))

	r := gin.New()
	r.GET("/bookings/user", authAs(7, "guest"), GetUserBookings(store))

	req := httptest.NewRequest(http.MethodGet, "/bookings/user", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "b1", resp.Bookings[0].ID)
}
