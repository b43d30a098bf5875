package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore implements booking.Store in memory for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[uint]*models.Room
	bookings map[string]*models.Booking

	findErr        error
	markPaymentErr error
	payments       []booking.PaymentUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[uint]*models.Room),
		bookings: make(map[string]*models.Booking),
	}
}

func (f *fakeStore) FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var conflicts []models.Booking
	for _, b := range f.bookings {
		if b.RoomID != roomID || b.IsDeleted || b.Status == models.BookingStatusCancelled {
			continue
		}
		if booking.Overlaps(checkIn, checkOut, b.CheckInDate, b.CheckOutDate) {
			conflicts = append(conflicts, *b)
		}
	}
	return conflicts, nil
}

func (f *fakeStore) Create(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch booking.UpdatePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.CheckInDate = patch.CheckInDate
	b.CheckOutDate = patch.CheckOutDate
	b.Guests = patch.Guests
	return nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.IsDeleted = true
	b.Status = models.BookingStatusCancelled
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) GetRoomWithHotel(ctx context.Context, roomID uint) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && !b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByHotel(ctx context.Context, hotelID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID && !b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkPayment(ctx context.Context, id string, upd booking.PaymentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markPaymentErr != nil {
		return f.markPaymentErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.Status = upd.Status
	b.PaymentStatus = upd.PaymentStatus
	b.PaymentMethod = upd.PaymentMethod
	b.IsPaid = upd.IsPaid
	f.payments = append(f.payments, upd)
	return nil
}

// fakeQueue records everything sent to it.
type fakeQueue struct {
	mu      sync.Mutex
	sent    [][]byte
	sendErr error
}

func (q *fakeQueue) Send(ctx context.Context, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sendErr != nil {
		return q.sendErr
	}
	q.sent = append(q.sent, body)
	return nil
}

func (q *fakeQueue) Receive(ctx context.Context) (*booking.QueueMessage, error) {
	return nil, nil
}

func (q *fakeQueue) Delete(ctx context.Context, receiptHandle string) error {
	return nil
}

// fakeDeduper mimics the Redis SETNX deduper.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	cleared []string
	markErr error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{seen: make(map[string]bool)}
}

func (d *fakeDeduper) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.markErr != nil {
		return false, d.markErr
	}
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *fakeDeduper) Clear(ctx context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, eventID)
	d.cleared = append(d.cleared, eventID)
	return nil
}

// authAs fakes the auth middleware for tests.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("role", role)
	}
}
