package booking

import (
	"context"
	"time"

	"github.com/stayhub/stayhub-backend/internal/models"
)

// OverlapFinder is the slice of the store the evaluator needs.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error)
}

// Overlaps is the canonical conflict rule: stays are half-open ranges
// [checkIn, checkOut), so a check-out and a check-in on the same day are
// back-to-back, not a conflict. The store's overlap query must mirror this.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// IsAvailable reports whether the room has no live booking overlapping the
// requested stay. At request time this is advisory only; the worker runs the
// same check again inside the storage transaction before inserting, and that
// second check is the real admission-control point.
func IsAvailable(ctx context.Context, store OverlapFinder, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := store.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
