package availability

import (
	"context"
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

// SlotStep is the fixed granularity of offered slot starts.
const SlotStep = 15 * time.Minute

type Slot struct {
	Start time.Time
	End   time.Time
}

// Engine answers "is this window free" and "which windows are free" for
// one resource. It keeps no state; every call re-reads the store.
type Engine struct {
	repo schedule.Reader
}

func NewEngine(repo schedule.Reader) *Engine {
	return &Engine{repo: repo}
}

type checkOptions struct {
	ignoreAppointment uint
}

type CheckOption func(*checkOptions)

// IgnoreAppointment leaves out an appointment and the block it owns, so a
// booking being confirmed or moved does not conflict with itself.
func IgnoreAppointment(id uint) CheckOption {
	return func(o *checkOptions) {
		o.ignoreAppointment = id
	}
}

// Check returns nil when [start, end) is bookable, or a *schedule.ConflictError
// naming the first rule that fails. start and end must already be in the
// business location.
func (e *Engine) Check(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	start time.Time,
	end time.Time,
	opts ...CheckOption,
) error {

	var o checkOptions
	for _, opt := range opts {
		opt(&o)
	}

	window := interval.New(start, end)
	if !window.Valid() || !window.SameDay() {
		return schedule.ErrInvalidWindow
	}

	// 1. working day
	week, err := e.repo.GetWorkingHours(ctx, businessID, resourceID)
	if err != nil {
		return err
	}
	day, ok := schedule.ForWeekday(week, interval.WeekdayOf(start))
	if !ok || !day.Open() {
		return schedule.Conflict(schedule.ReasonNotWorkingDay)
	}

	// 2. inside an open slot
	contained := false
	for _, slot := range day.Slots {
		if interval.Contains(slot.On(start), window) {
			contained = true
			break
		}
	}
	if !contained {
		return schedule.Conflict(schedule.ReasonOutsideWorkingHours)
	}

	// 3. breaks
	for _, br := range day.Breaks {
		if interval.Overlaps(br.On(start), window) {
			return schedule.Conflict(schedule.ReasonBreakConflict)
		}
	}

	// 4. blocked times on that date
	date := interval.Day(start)
	blocked, err := e.repo.GetBlockedTimes(ctx, businessID, resourceID, date.Start, date.End)
	if err != nil {
		return err
	}
	for _, bt := range blocked {
		if o.ignoreAppointment != 0 && bt.AppointmentID != nil && *bt.AppointmentID == o.ignoreAppointment {
			continue
		}
		if interval.Overlaps(interval.New(bt.StartTime, bt.EndTime), window) {
			return schedule.Conflict(schedule.ReasonBlockedConflict)
		}
	}

	// 5. occupying appointments on that date
	apps, err := e.repo.GetAppointmentsOnDate(ctx, businessID, resourceID, date, appointment.OccupyingStatuses)
	if err != nil {
		return err
	}
	for _, ap := range apps {
		if ap.ID == o.ignoreAppointment && o.ignoreAppointment != 0 {
			continue
		}
		if interval.Overlaps(interval.New(ap.StartTime, ap.EndTime), window) {
			return schedule.Conflict(schedule.ReasonAppointmentConflict)
		}
	}

	return nil
}

// IsAvailable collapses every conflict reason to false. Store failures
// and invalid windows are still returned as errors.
func (e *Engine) IsAvailable(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	start time.Time,
	end time.Time,
) (bool, error) {
	err := e.Check(ctx, businessID, resourceID, start, end)
	if err == nil {
		return true, nil
	}
	if schedule.IsConflict(err) {
		return false, nil
	}
	return false, err
}

// Slots fetches the day's conflict sets once and returns a lazy sequence
// of free windows of the given duration, stepping SlotStep from each open
// slot's start. Ranging over it twice yields the same slots.
func (e *Engine) Slots(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	date time.Time,
	duration time.Duration,
) (iter.Seq[Slot], error) {

	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	week, err := e.repo.GetWorkingHours(ctx, businessID, resourceID)
	if err != nil {
		return nil, err
	}
	wh, ok := schedule.ForWeekday(week, interval.WeekdayOf(date))
	if !ok || !wh.Open() {
		return func(func(Slot) bool) {}, nil
	}

	day := interval.Day(date)

	blocked, err := e.repo.GetBlockedTimes(ctx, businessID, resourceID, day.Start, day.End)
	if err != nil {
		return nil, err
	}
	apps, err := e.repo.GetAppointmentsOnDate(ctx, businessID, resourceID, day, appointment.OccupyingStatuses)
	if err != nil {
		return nil, err
	}

	busy := make([]interval.Interval, 0, len(wh.Breaks)+len(blocked)+len(apps))
	for _, br := range wh.Breaks {
		busy = append(busy, br.On(date))
	}
	for _, bt := range blocked {
		busy = append(busy, interval.New(bt.StartTime, bt.EndTime))
	}
	for _, ap := range apps {
		busy = append(busy, interval.New(ap.StartTime, ap.EndTime))
	}

	open := make([]interval.Interval, 0, len(wh.Slots))
	for _, s := range wh.Slots {
		open = append(open, s.On(date))
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Start.Before(open[j].Start) })

	return func(yield func(Slot) bool) {
		// overlapping open slots would otherwise offer a start twice
		seen := make(map[int64]struct{})
		for _, slot := range open {
			for c := slot.Start; !c.Add(duration).After(slot.End); c = c.Add(SlotStep) {
				if _, dup := seen[c.Unix()]; dup {
					continue
				}
				cand := interval.New(c, c.Add(duration))
				if interval.OverlapsAny(cand, busy) {
					continue
				}
				seen[c.Unix()] = struct{}{}
				if !yield(Slot{Start: cand.Start, End: cand.End}) {
					return
				}
			}
		}
	}, nil
}

// AvailableSlots is the eager form of Slots. A closed day or a duration
// longer than every slot yields an empty, non-nil list.
func (e *Engine) AvailableSlots(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	date time.Time,
	duration time.Duration,
) ([]Slot, error) {
	seq, err := e.Slots(ctx, businessID, resourceID, date, duration)
	if err != nil {
		return nil, err
	}
	slots := slices.Collect(seq)
	if slots == nil {
		slots = []Slot{}
	}
	return slots, nil
}
