package handlers

import (
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

// ClockRangeDTO is an "HH:MM" range on the wire.
type ClockRangeDTO struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func toClockRanges(in []ClockRangeDTO, code string) ([]interval.ClockRange, error) {
	out := make([]interval.ClockRange, 0, len(in))
	for _, r := range in {
		start, err := interval.ParseClock(r.Start)
		if err != nil {
			return nil, httperr.ErrBusiness(code)
		}
		end, err := interval.ParseClock(r.End)
		if err != nil {
			return nil, httperr.ErrBusiness(code)
		}
		out = append(out, interval.ClockRange{Start: start, End: end})
	}
	return out, nil
}

func fromClockRanges(in []interval.ClockRange) []ClockRangeDTO {
	out := make([]ClockRangeDTO, 0, len(in))
	for _, r := range in {
		out = append(out, ClockRangeDTO{Start: r.Start.String(), End: r.End.String()})
	}
	return out
}

func parseDateIn(loc *time.Location, date string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return t, nil
}
