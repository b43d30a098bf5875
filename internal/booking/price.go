package booking

import "time"

const millisPerDay = 24 * 60 * 60 * 1000

// Nights returns the billable night count for a stay. Partial days round up;
// there is no partial-day billing.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidDateRange
	}
	ms := checkOut.Sub(checkIn).Milliseconds()
	nights := (ms + millisPerDay - 1) / millisPerDay
	return int(nights), nil
}

// TotalPrice computes the stay price as nightly rate times nights. The result
// is fixed at creation time and never recomputed afterwards.
func TotalPrice(pricePerNight float64, checkIn, checkOut time.Time) (float64, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	return pricePerNight * float64(nights), nil
}
