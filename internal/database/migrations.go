package database

import (
	"github.com/stayhub/stayhub-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Update constraints
	db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
	db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('guest', 'owner', 'admin'))`)

	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'completed', 'cancelled', 'payment_failed'))`)

	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_dates_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_dates_check CHECK (check_out_date > check_in_date)`)

	// Storage-level guard against double booking: two live bookings for the
	// same room may never hold overlapping stay ranges. The worker's re-check
	// handles the friendly rejection; this constraint keeps the invariant even
	// if two creates race past it.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var constraintExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM pg_constraint
			WHERE conname = 'bookings_no_overlap'
		)`).Scan(&constraintExists).Error
	if err != nil {
		return err
	}

	if !constraintExists {
		if err := db.Exec(noOverlapConstraint).Error; err != nil {
			return err
		}
	}

	return nil
}

// The date columns migrate as timestamptz, so the range type must be
// tstzrange. Default [) bounds: a check-out day is re-bookable.
const noOverlapConstraint = `
	ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
	EXCLUDE USING gist (
		room_id WITH =,
		tstzrange(check_in_date, check_out_date) WITH &&
	) WHERE (NOT is_deleted AND status <> 'cancelled')`
