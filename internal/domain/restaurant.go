package domain

import "time"

// HoursPerDay is the number of hour slots a reservation day is divided into.
const HoursPerDay = 24

// OperatingWindow is the [OpenHour, CloseHour) range a restaurant takes reservations in.
type OperatingWindow struct {
	OpenHour  int
	CloseHour int
}

// Valid reports whether the window is a non-empty range within a single day.
func (w OperatingWindow) Valid() bool {
	return w.OpenHour >= 0 && w.OpenHour < w.CloseHour && w.CloseHour <= HoursPerDay
}

type Restaurant struct {
	ID        string
	Name      string
	Window    OperatingWindow
	CreatedAt time.Time
}
