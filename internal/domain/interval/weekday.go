package interval

import "time"

// Weekday is stored as 0 (Sunday) .. 6 (Saturday).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf derives the weekday of t in t's own location. Callers convert
// to the business location first.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	return time.Weekday(w).String()
}
