package interval

import (
	"errors"
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid_clock")

// Clock is a minute of the day in the business' local clock.
// 1440 is accepted to express "until midnight".
type Clock int

func ParseClock(hm string) (Clock, error) {
	if hm == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}

// On places the clock on the calendar day of date.
func (c Clock) On(date time.Time) time.Time {
	day := DayStart(date)
	return time.Date(day.Year(), day.Month(), day.Day(), int(c)/60, int(c)%60, 0, 0, day.Location())
}

// ClockOf returns the minute of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// ClockRange is a day-local [Start, End) range, e.g. an open slot or a break.
type ClockRange struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func (r ClockRange) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start < r.End
}

func (r ClockRange) On(date time.Time) Interval {
	return Interval{Start: r.Start.On(date), End: r.End.On(date)}
}

func (r ClockRange) Minutes() int {
	return int(r.End - r.Start)
}
