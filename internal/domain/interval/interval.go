package interval

import "time"

// Interval is a half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Overlaps reports whether a and b share any instant.
// Back-to-back intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies fully inside outer.
func Contains(outer, inner Interval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

func AddMinutes(t time.Time, m int) time.Time {
	return t.Add(time.Duration(m) * time.Minute)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// SameDay reports whether the interval starts and ends on the same calendar
// day of its start location. An end at exactly the next midnight counts as
// the same day.
func (i Interval) SameDay() bool {
	day := DayStart(i.Start)
	return !i.End.After(day.AddDate(0, 0, 1))
}

// OverlapsAny reports whether iv overlaps any of the given intervals.
func OverlapsAny(iv Interval, others []Interval) bool {
	for _, o := range others {
		if Overlaps(iv, o) {
			return true
		}
	}
	return false
}

// DayStart returns local midnight of t's calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Day returns [midnight, next midnight) for t's calendar day.
func Day(t time.Time) Interval {
	start := DayStart(t)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
