package booking

import (
	"context"
	"errors"
	"time"

	"github.com/stayhub/stayhub-backend/internal/models"
	"gorm.io/gorm"
)

// UpdatePatch carries the only booking fields an update message may touch.
// Price and room never change after creation.
type UpdatePatch struct {
	CheckInDate  time.Time
	CheckOutDate time.Time
	Guests       int
}

// PaymentUpdate carries the fields the payment reconciler may touch.
type PaymentUpdate struct {
	Status        models.BookingStatus
	PaymentStatus models.PaymentStatus
	PaymentMethod string
	IsPaid        bool
}

// Store is the persistence adapter for bookings. The underlying database is
// the single source of truth; the queue is only a write-ahead buffer.
type Store interface {
	OverlapFinder
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, id string, patch UpdatePatch) error
	SoftDelete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	GetRoomWithHotel(ctx context.Context, roomID uint) (*models.Room, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	ListByHotel(ctx context.Context, hotelID uint) ([]models.Booking, error)
	MarkPayment(ctx context.Context, id string, upd PaymentUpdate) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// live scopes a query to bookings that count for availability: not
// soft-deleted and not cancelled.
func live(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ? AND status <> ?", false, models.BookingStatusCancelled)
}

func (s *gormStore) FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error) {
	var conflicts []models.Booking
	err := live(s.db.WithContext(ctx)).
		Where("room_id = ? AND check_in_date < ? AND check_out_date > ?", roomID, checkOut, checkIn).
		Find(&conflicts).Error
	return conflicts, err
}

// Create inserts the booking after re-checking availability against current
// data. The advisory lock serializes creates per room, so the re-check and
// the insert are atomic with respect to concurrent creates for the same room.
func (s *gormStore) Create(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(b.RoomID)).Error; err != nil {
			return err
		}

		// Redelivered create message: the row is already there, nothing to do.
		var existing int64
		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		var conflicts int64
		err := live(tx).Model(&models.Booking{}).
			Where("room_id = ? AND check_in_date < ? AND check_out_date > ?", b.RoomID, b.CheckOutDate, b.CheckInDate).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrRoomUnavailable
		}

		return tx.Create(b).Error
	})
}

// Update moves a booking's stay after re-checking the new dates against
// every other live booking for the room, under the same advisory lock as
// Create. Without the re-check an update could slide onto an occupied range.
func (s *gormStore) Update(ctx context.Context, id string, patch UpdatePatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if b.IsDeleted {
			return ErrNotFound
		}

		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(b.RoomID)).Error; err != nil {
			return err
		}

		var conflicts int64
		err := live(tx).Model(&models.Booking{}).
			Where("id <> ? AND room_id = ? AND check_in_date < ? AND check_out_date > ?",
				id, b.RoomID, patch.CheckOutDate, patch.CheckInDate).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrRoomUnavailable
		}

		return tx.Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"check_in_date":  patch.CheckInDate,
				"check_out_date": patch.CheckOutDate,
				"guests":         patch.Guests,
			}).Error
	})
}

// SoftDelete cancels the booking and marks it deleted while keeping the row
// for audit. Re-applying it to an already-deleted booking is a no-op.
func (s *gormStore) SoftDelete(ctx context.Context, id string) error {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.IsDeleted {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"status":     models.BookingStatusCancelled,
		}).Error
}

func (s *gormStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Hotel").
		First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *gormStore) GetRoomWithHotel(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Preload("Hotel").First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *gormStore) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Preload("Room").
		Preload("Hotel").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *gormStore) ListByHotel(ctx context.Context, hotelID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("hotel_id = ? AND is_deleted = ?", hotelID, false).
		Preload("Room").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *gormStore) MarkPayment(ctx context.Context, id string, upd PaymentUpdate) error {
	result := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         upd.Status,
			"payment_status": upd.PaymentStatus,
			"payment_method": upd.PaymentMethod,
			"is_paid":        upd.IsPaid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
