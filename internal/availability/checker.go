// Package availability decides whether a reservation fits a restaurant's day.
//
// A day is modelled as domain.HoursPerDay hour slots. Slots outside the
// operating window and slots covered by existing reservations are taken;
// a request is accepted only if every slot it spans is free.
package availability

import "github.com/cimillas/table-reservations/internal/domain"

type slots [domain.HoursPerDay]bool

func newSlots(window domain.OperatingWindow) slots {
	var s slots
	for h := range s {
		s[h] = h >= window.OpenHour && h < window.CloseHour
	}
	return s
}

// book marks the part of [start, start+duration) that falls inside the day.
// The end is clamped before it is computed so large durations cannot wrap.
func (s *slots) book(start, duration int) {
	if duration <= 0 || start >= len(s) {
		return
	}
	end := len(s)
	if start < 0 || duration < len(s)-start {
		end = min(start+duration, len(s))
	}
	for h := max(start, 0); h < end; h++ {
		s[h] = false
	}
}

// free reports whether every hour of [start, start+duration) is bookable.
// A span reaching outside the day is never free.
func (s *slots) free(start, duration int) bool {
	if start < 0 || start >= len(s) || duration > len(s)-start {
		return false
	}
	for h := start; h < start+duration; h++ {
		if !s[h] {
			return false
		}
	}
	return true
}

func occupancy(window domain.OperatingWindow, existing []domain.Reservation) slots {
	s := newSlots(window)
	for _, r := range existing {
		s.book(r.StartHour, r.Duration)
	}
	return s
}

// CheckAndBuild validates req against the window and the reservations already
// booked on the same date, returning the accepted reservation or the first
// rejection reason. It has no side effects; existing must already be filtered
// to the restaurant and date of req.
func CheckAndBuild(window domain.OperatingWindow, existing []domain.Reservation, req domain.ReservationRequest) (domain.Reservation, error) {
	if req.Duration <= 0 {
		return domain.Reservation{}, domain.ErrInvalidDuration
	}
	if req.StartHour < window.OpenHour {
		return domain.Reservation{}, domain.ErrOutsideOpeningHours
	}
	if req.StartHour >= window.CloseHour {
		return domain.Reservation{}, domain.ErrAfterClosingHours
	}
	if req.Duration > window.CloseHour-req.StartHour {
		return domain.Reservation{}, domain.ErrExceedsClosingTime
	}

	s := occupancy(window, existing)
	if !s.free(req.StartHour, req.Duration) {
		return domain.Reservation{}, domain.ErrSlotConflict
	}

	return domain.Reservation{
		Date:      req.Date,
		StartHour: req.StartHour,
		Duration:  req.Duration,
		PartySize: req.PartySize,
	}, nil
}

// FreeHours lists, in ascending order, the hours a one-hour reservation could
// still start at.
func FreeHours(window domain.OperatingWindow, existing []domain.Reservation) []int {
	s := occupancy(window, existing)
	hours := make([]int, 0, len(s))
	for h, ok := range s {
		if ok {
			hours = append(hours, h)
		}
	}
	return hours
}
