package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/dto"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/timezone"
)

type ListByDate struct {
	repo schedule.Repository
}

func NewListByDate(repo schedule.Repository) *ListByDate {
	return &ListByDate{repo: repo}
}

// Execute lists the day's appointments of every status. resourceID 0
// lists every resource of the business.
func (uc *ListByDate) Execute(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	biz, err := uc.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(biz.Timezone)

	start, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, businessID, resourceID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			ResourceID:   ap.ResourceID,
			StartTime:    ap.StartTime.In(loc),
			EndTime:      ap.EndTime.In(loc),
			Status:       ap.Status,
			CustomerName: ap.Customer.Name,
			ServiceName:  ap.Service.Name,
		})
	}

	return out, nil
}
