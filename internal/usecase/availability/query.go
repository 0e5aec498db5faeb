package availability

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/timezone"
)

type SlotsInput struct {
	BusinessID uint
	ResourceID uint

	// ServiceID wins over DurationMin when both are set.
	ServiceID   uint
	DurationMin int

	Date string
}

type CheckInput struct {
	BusinessID uint
	ResourceID uint
	Date       string
	Start      string
	End        string
}

// Query resolves request parameters (dates, services) in the business
// location before asking the engine.
type Query struct {
	repo   schedule.Repository
	engine *Engine
}

func NewQuery(repo schedule.Repository, engine *Engine) *Query {
	return &Query{repo: repo, engine: engine}
}

func (q *Query) BusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	biz, err := q.repo.GetBusinessBySlug(ctx, slug)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil, httperr.ErrBusiness("business_not_found")
	}
	return biz, err
}

func (q *Query) Slots(ctx context.Context, in SlotsInput) ([]Slot, error) {
	loc, err := q.prepare(ctx, in.BusinessID, in.ResourceID)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	minutes := in.DurationMin
	if in.ServiceID != 0 {
		svc, err := q.repo.GetService(ctx, in.BusinessID, in.ServiceID)
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if err != nil {
			return nil, err
		}
		minutes = svc.DurationMin
	}

	return q.engine.AvailableSlots(ctx, in.BusinessID, in.ResourceID, date, time.Duration(minutes)*time.Minute)
}

// Check returns nil or the conflict that makes the window unbookable.
func (q *Query) Check(ctx context.Context, in CheckInput) error {
	loc, err := q.prepare(ctx, in.BusinessID, in.ResourceID)
	if err != nil {
		return err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Start, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.End, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date_or_time")
	}

	return q.engine.Check(ctx, in.BusinessID, in.ResourceID, start, end)
}

func (q *Query) prepare(ctx context.Context, businessID, resourceID uint) (*time.Location, error) {
	biz, err := q.repo.GetBusiness(ctx, businessID)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil, httperr.ErrBusiness("business_not_found")
	}
	if err != nil {
		return nil, err
	}

	if _, err := q.repo.GetResource(ctx, businessID, resourceID); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, httperr.ErrBusiness("resource_not_found")
		}
		return nil, err
	}

	return timezone.Location(biz.Timezone), nil
}
