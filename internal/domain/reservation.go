package domain

import "time"

// ReservationRequest is a booking that has not been accepted yet.
// Date is an opaque key: two reservations share a day only when their dates are equal.
type ReservationRequest struct {
	Date      string
	StartHour int
	Duration  int
	PartySize int
}

// Reservation is an accepted booking. It is never mutated after creation.
type Reservation struct {
	ID           string
	RestaurantID string
	Date         string
	StartHour    int
	Duration     int
	PartySize    int
	CreatedAt    time.Time
}

// EndHour is the first hour after the reservation. Accepted reservations
// end at or before closing, so the sum stays within the day.
func (r Reservation) EndHour() int {
	return r.StartHour + r.Duration
}
