package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "pending"
	BookingStatusCompleted     BookingStatus = "completed"
	BookingStatusCancelled     BookingStatus = "cancelled"
	BookingStatusPaymentFailed BookingStatus = "payment_failed"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Booking is created by the queue worker, not by the HTTP handler. Its ID is a
// UUID minted when the request is enqueued so redelivered create messages stay
// idempotent. Soft-deleted rows are kept for audit and excluded from
// availability checks and user-facing listings.
type Booking struct {
	ID            string        `json:"_id" gorm:"type:uuid;primaryKey"`
	UserID        uint          `json:"user" gorm:"not null;index"`
	User          User          `json:"userData"`
	RoomID        uint          `json:"room" gorm:"not null;index"`
	Room          Room          `json:"roomData"`
	HotelID       uint          `json:"hotel" gorm:"not null;index"` // denormalized from room at creation
	Hotel         Hotel         `json:"hotelData"`
	CheckInDate   time.Time     `json:"checkInDate" gorm:"not null"`
	CheckOutDate  time.Time     `json:"checkOutDate" gorm:"not null"`
	Guests        int           `json:"guests" gorm:"not null"`
	TotalPrice    float64       `json:"totalPrice" gorm:"not null"`
	Status        BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"not null;default:'unpaid'"`
	PaymentMethod string        `json:"paymentMethod" gorm:"not null;default:'Pay At Hotel'"`
	IsPaid        bool          `json:"isPaid" gorm:"not null;default:false"`
	IsDeleted     bool          `json:"isDeleted" gorm:"not null;default:false;index"`
	DeletedAt     *time.Time    `json:"deletedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Terminal reports whether the booking reached a final state. A terminal
// status is never overwritten by a later or duplicate payment event.
func (b *Booking) Terminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusPaymentFailed:
		return true
	}
	return false
}
