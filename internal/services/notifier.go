package services

import (
	"context"
	"fmt"

	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stayhub/stayhub-backend/pkg/utils"
	"gorm.io/gorm"
)

// BookingNotifier implements booking.Notifier: confirmation email plus a
// websocket push. Both are best-effort; the caller only logs failures.
type BookingNotifier struct {
	db     *gorm.DB
	mailer *utils.Mailer
	hub    *Hub
}

func NewBookingNotifier(db *gorm.DB, mailer *utils.Mailer, hub *Hub) *BookingNotifier {
	return &BookingNotifier{db: db, mailer: mailer, hub: hub}
}

func (n *BookingNotifier) BookingConfirmed(ctx context.Context, b *models.Booking) error {
	if n.hub != nil {
		n.hub.PushBookingStatus(b)
	}

	if n.mailer == nil {
		return nil
	}

	var user models.User
	if err := n.db.WithContext(ctx).First(&user, b.UserID).Error; err != nil {
		return fmt.Errorf("looking up booking user: %w", err)
	}

	return n.mailer.SendBookingConfirmation(user.Email, user.Username, b)
}
