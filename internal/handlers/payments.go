package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/models"
	"github.com/stayhub/stayhub-backend/internal/services"
	"github.com/stayhub/stayhub-backend/pkg/logger"
)

// EventDeduper remembers processed webhook event ids so replayed deliveries
// become no-ops.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Clear(ctx context.Context, eventID string) error
}

type checkoutInput struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// CreateCheckoutSession starts a Stripe checkout for a booking. The booking
// id travels in the payment-intent metadata so the webhook can reconcile
// without a provider round-trip.
func CreateCheckoutSession(store booking.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input checkoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		b, err := store.Get(c.Request.Context(), input.BookingID)
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Booking not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		if b.UserID != c.GetUint("userId") {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		origin := c.GetHeader("Origin")

		params := &stripe.CheckoutSessionParams{
			Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
						Currency: stripe.String("usd"),
						ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
							Name: stripe.String(b.Hotel.Name),
						},
						UnitAmount: stripe.Int64(int64(b.TotalPrice * 100)),
					},
					Quantity: stripe.Int64(1),
				},
			},
			SuccessURL: stripe.String(origin + "/loader/my-bookings"),
			CancelURL:  stripe.String(origin + "/my-bookings"),
			PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
				Metadata: map[string]string{"bookingId": b.ID},
			},
		}

		s, err := session.New(params)
		if err != nil {
			logger.ErrorLogger.Errorf("stripe checkout session failed for booking %s: %v", b.ID, err)
			c.JSON(500, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		c.JSON(200, gin.H{"success": true, "url": s.URL})
	}
}

// paymentTransition maps a verified event type onto booking payment fields.
type paymentTransition struct {
	status        models.BookingStatus
	paymentStatus models.PaymentStatus
	isPaid        bool
}

var paymentTransitions = map[string]paymentTransition{
	"payment_intent.succeeded": {
		status:        models.BookingStatusCompleted,
		paymentStatus: models.PaymentStatusPaid,
		isPaid:        true,
	},
	"payment_intent.payment_failed": {
		status:        models.BookingStatusPaymentFailed,
		paymentStatus: models.PaymentStatusFailed,
	},
	"payment_intent.canceled": {
		status:        models.BookingStatusCancelled,
		paymentStatus: models.PaymentStatusCancelled,
	},
}

// PaymentWebhook reconciles asynchronous payment events onto bookings.
// Nothing is trusted before the signature verifies. Replayed events are
// no-ops, terminal bookings are never overwritten, and data-layer failures
// return 5xx so the provider redelivers.
func PaymentWebhook(store booking.Store, dedupe EventDeduper, hub *services.Hub, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(400, gin.H{"received": false, "message": "invalid body"})
			return
		}

		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), webhookSecret)
		if err != nil {
			logger.ErrorLogger.Errorf("webhook signature verification failed: %v", err)
			c.JSON(400, gin.H{"received": false, "message": "signature verification failed"})
			return
		}

		transition, handled := paymentTransitions[string(event.Type)]
		if !handled {
			// Acknowledge so the provider does not retry.
			c.JSON(200, gin.H{"received": true})
			return
		}

		ctx := c.Request.Context()

		if dedupe != nil {
			first, err := dedupe.MarkProcessed(ctx, event.ID)
			if err != nil {
				// Dedupe store down: carry on, every transition below is
				// idempotent anyway.
				logger.ErrorLogger.Errorf("webhook dedupe check failed: %v", err)
			} else if !first {
				c.JSON(200, gin.H{"received": true})
				return
			}
		}

		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			logger.ErrorLogger.Errorf("webhook event %s: bad payment intent payload: %v", event.ID, err)
			c.JSON(400, gin.H{"received": false, "message": "invalid event payload"})
			return
		}

		bookingID := intent.Metadata["bookingId"]
		if bookingID == "" {
			logger.ErrorLogger.Errorf("webhook event %s has no booking reference", event.ID)
			c.JSON(400, gin.H{"received": false, "message": "missing booking reference"})
			return
		}

		b, err := store.Get(ctx, bookingID)
		if errors.Is(err, booking.ErrNotFound) {
			// Release the dedupe key so a provider retry after the booking
			// materializes is not swallowed as a replay.
			clearDedupe(ctx, dedupe, event.ID)
			c.JSON(404, gin.H{"received": false, "message": "booking not found"})
			return
		}
		if err != nil {
			clearDedupe(ctx, dedupe, event.ID)
			c.JSON(500, gin.H{"received": false, "message": "internal error"})
			return
		}

		// Terminal statuses stay put: a duplicate of the same event is a
		// no-op and a late event after cancellation must not resurrect the
		// booking.
		if b.Terminal() {
			if b.Status != transition.status {
				logger.InfoLogger.Infof("webhook event %s ignored: booking %s already %s", event.ID, b.ID, b.Status)
			}
			c.JSON(200, gin.H{"received": true})
			return
		}

		upd := booking.PaymentUpdate{
			Status:        transition.status,
			PaymentStatus: transition.paymentStatus,
			PaymentMethod: "stripe",
			IsPaid:        transition.isPaid,
		}
		if err := store.MarkPayment(ctx, b.ID, upd); err != nil {
			clearDedupe(ctx, dedupe, event.ID)
			c.JSON(500, gin.H{"received": false, "message": "internal error"})
			return
		}

		if hub != nil {
			b.Status = transition.status
			b.PaymentStatus = transition.paymentStatus
			b.IsPaid = transition.isPaid
			hub.PushBookingStatus(b)
		}

		c.JSON(200, gin.H{"received": true})
	}
}

// clearDedupe forgets the event id after an internal failure so the provider
// retry gets processed instead of deduped away.
func clearDedupe(ctx context.Context, dedupe EventDeduper, eventID string) {
	if dedupe == nil {
		return
	}
	if err := dedupe.Clear(ctx, eventID); err != nil {
		logger.ErrorLogger.Errorf("clearing webhook dedupe key %s failed: %v", eventID, err)
	}
}
