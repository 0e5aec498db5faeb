package schedule

import (
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// WorkingHours is the resource's plan for one weekday. Breaks are expected
// to sit inside a slot but that is not enforced.
type WorkingHours struct {
	Weekday interval.Weekday
	Active  bool
	Slots   []interval.ClockRange
	Breaks  []interval.ClockRange
}

func (w WorkingHours) Open() bool {
	return w.Active && len(w.Slots) > 0
}

func (w WorkingHours) Validate() error {
	if !w.Weekday.Valid() {
		return httperr.ErrBusiness("invalid_weekday")
	}
	for _, s := range w.Slots {
		if !s.Valid() {
			return httperr.ErrBusiness("invalid_slot")
		}
	}
	for _, b := range w.Breaks {
		if !b.Valid() {
			return httperr.ErrBusiness("invalid_break")
		}
	}
	return nil
}

// ForWeekday picks the plan for wd among a resource's week.
func ForWeekday(week []WorkingHours, wd interval.Weekday) (WorkingHours, bool) {
	for _, w := range week {
		if w.Weekday == wd {
			return w, true
		}
	}
	return WorkingHours{}, false
}

func FromModel(day models.WorkingDay) WorkingHours {
	w := WorkingHours{
		Weekday: interval.Weekday(day.Weekday),
		Active:  day.Active,
		Slots:   make([]interval.ClockRange, 0, len(day.Slots)),
		Breaks:  make([]interval.ClockRange, 0, len(day.Breaks)),
	}
	for _, s := range day.Slots {
		w.Slots = append(w.Slots, interval.ClockRange{
			Start: interval.Clock(s.StartMinute),
			End:   interval.Clock(s.EndMinute),
		})
	}
	for _, b := range day.Breaks {
		w.Breaks = append(w.Breaks, interval.ClockRange{
			Start: interval.Clock(b.StartMinute),
			End:   interval.Clock(b.EndMinute),
		})
	}
	return w
}

func (w WorkingHours) ToModel(businessID, resourceID uint) models.WorkingDay {
	day := models.WorkingDay{
		BusinessID: businessID,
		ResourceID: resourceID,
		Weekday:    int(w.Weekday),
		Active:     w.Active,
	}
	for _, s := range w.Slots {
		day.Slots = append(day.Slots, models.WorkingSlot{
			StartMinute: int(s.Start),
			EndMinute:   int(s.End),
		})
	}
	for _, b := range w.Breaks {
		day.Breaks = append(day.Breaks, models.Break{
			StartMinute: int(b.Start),
			EndMinute:   int(b.End),
		})
	}
	return day
}
