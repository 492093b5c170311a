package clock

import "time"

// Clock supplies creation timestamps to services.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to a Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f().UTC()
}

// NewSystem returns the wall clock in UTC.
func NewSystem() Clock {
	return Func(time.Now)
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
