package domain

import "errors"

var (
	ErrRestaurantNotFound     = errors.New("restaurant not found")
	ErrRestaurantNameRequired = errors.New("restaurant name required")
	ErrInvalidOperatingHours  = errors.New("invalid operating hours")
	ErrInvalidID              = errors.New("invalid id")
	ErrInvalidDate            = errors.New("invalid reservation date")
	ErrInvalidPartySize       = errors.New("invalid party size")

	// Reservation rejections, in the order they are checked.
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrOutsideOpeningHours = errors.New("reservation starts before opening hours")
	ErrAfterClosingHours   = errors.New("reservation starts after closing hours")
	ErrExceedsClosingTime  = errors.New("reservation ends after closing time")
	ErrSlotConflict        = errors.New("reservation slot already booked")
)
