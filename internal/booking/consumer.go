package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub-backend/internal/models"
)

// QueueMessage is one received queue delivery. The receipt handle is what the
// consumer hands back to acknowledge (delete) the message.
type QueueMessage struct {
	Body          []byte
	ReceiptHandle string
}

// Queue is a durable at-least-once message channel. Receive long-polls and
// returns nil when the wait times out with nothing to deliver.
type Queue interface {
	Send(ctx context.Context, body []byte) error
	Receive(ctx context.Context) (*QueueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Enqueue validates and sends one booking mutation onto the queue.
func Enqueue(ctx context.Context, q Queue, msg Message) error {
	body, err := EncodeEnvelope(msg)
	if err != nil {
		return err
	}
	return q.Send(ctx, body)
}

// Notifier is told about a freshly persisted booking. Failures are logged by
// the consumer and never roll the booking back.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *models.Booking) error
}

// Consumer drains the booking queue and applies each mutation to the store.
// A message is deleted only after the store write succeeds, so a crash in
// between redelivers it; every handler tolerates redelivery.
type Consumer struct {
	queue    Queue
	store    Store
	notifier Notifier
	log      *logrus.Logger
}

func NewConsumer(q Queue, store Store, notifier Notifier, log *logrus.Logger) *Consumer {
	return &Consumer{queue: q, store: store, notifier: notifier, log: log}
}

// Run polls until the context is cancelled. Receive errors back off briefly
// instead of spinning.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := c.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Errorf("queue receive failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		if err := c.Process(ctx, msg); err != nil {
			// Leave the message for redelivery.
			c.log.Errorf("processing booking message failed, leaving for redelivery: %v", err)
			continue
		}

		if err := c.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			c.log.Errorf("deleting processed message failed: %v", err)
		}
	}
}

// Process applies a single message. A nil return means the message is done
// and must be acknowledged; this includes a create rejected at admission,
// which is final and must not be retried.
func (c *Consumer) Process(ctx context.Context, msg *QueueMessage) error {
	env, err := DecodeEnvelope(msg.Body)
	if err != nil {
		// A malformed message can never succeed; drop it rather than
		// redeliver forever.
		c.log.Errorf("dropping undecodable message: %v", err)
		return nil
	}

	data := env.Data
	switch data.Action {
	case ActionCreate:
		return c.create(ctx, data)
	case ActionUpdate:
		return c.update(ctx, data)
	case ActionDelete:
		return c.store.SoftDelete(ctx, data.ID)
	}
	return nil
}

func (c *Consumer) update(ctx context.Context, data Message) error {
	err := c.store.Update(ctx, data.ID, UpdatePatch{
		CheckInDate:  data.CheckInDate,
		CheckOutDate: data.CheckOutDate,
		Guests:       data.Guests,
	})
	if errors.Is(err, ErrRoomUnavailable) {
		// Same final rejection as a create: the requested dates are taken, so
		// retrying the message can never succeed.
		c.log.Warnf("booking %s update rejected at admission: room %d taken for %s - %s",
			data.ID, data.RoomID, data.CheckInDate.Format("2006-01-02"), data.CheckOutDate.Format("2006-01-02"))
		return nil
	}
	return err
}

func (c *Consumer) create(ctx context.Context, data Message) error {
	b := &models.Booking{
		ID:            data.ID,
		UserID:        data.UserID,
		RoomID:        data.RoomID,
		HotelID:       data.HotelID,
		CheckInDate:   data.CheckInDate,
		CheckOutDate:  data.CheckOutDate,
		Guests:        data.Guests,
		TotalPrice:    data.TotalPrice,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentMethod: "Pay At Hotel",
	}

	err := c.store.Create(ctx, b)
	if errors.Is(err, ErrRoomUnavailable) {
		// Admission control rejected the request; the dates were taken in the
		// window between the advisory check and now. Final, no retry.
		c.log.Warnf("booking %s rejected at admission: room %d taken for %s - %s",
			data.ID, data.RoomID, data.CheckInDate.Format("2006-01-02"), data.CheckOutDate.Format("2006-01-02"))
		return nil
	}
	if err != nil {
		return err
	}

	if c.notifier != nil {
		if err := c.notifier.BookingConfirmed(ctx, b); err != nil {
			c.log.Errorf("booking %s confirmation notification failed: %v", b.ID, err)
		}
	}
	return nil
}
