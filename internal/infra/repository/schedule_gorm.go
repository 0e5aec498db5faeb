package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// wrap turns driver errors into the domain taxonomy: missing rows become
// ErrNotFound, overlap constraint violations become appointment conflicts
// and the rest RepositoryError.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return schedule.ErrNotFound
	case httperr.IsExclusionConflict(err):
		return schedule.Conflict(schedule.ReasonAppointmentConflict)
	}
	return &schedule.RepositoryError{Op: op, Err: err}
}

// --------------------------------------------------
// Reader
// --------------------------------------------------

func (r *ScheduleGormRepository) GetWorkingHours(
	ctx context.Context,
	businessID uint,
	resourceID uint,
) ([]schedule.WorkingHours, error) {

	var days []models.WorkingDay
	if err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("start_minute ASC") }).
		Preload("Breaks", func(db *gorm.DB) *gorm.DB { return db.Order("start_minute ASC") }).
		Where("business_id = ? AND resource_id = ?", businessID, resourceID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		return nil, wrap("GetWorkingHours", err)
	}

	out := make([]schedule.WorkingHours, 0, len(days))
	for _, d := range days {
		out = append(out, schedule.FromModel(d))
	}
	return out, nil
}

func (r *ScheduleGormRepository) GetBlockedTimes(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	rangeStart time.Time,
	rangeEnd time.Time,
) ([]models.BlockedTime, error) {

	var blocks []models.BlockedTime
	if err := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND resource_id = ? AND start_time < ? AND end_time > ?",
			businessID, resourceID, rangeEnd, rangeStart,
		).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, wrap("GetBlockedTimes", err)
	}
	return blocks, nil
}

func (r *ScheduleGormRepository) GetAppointmentsOnDate(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	day interval.Interval,
	statuses []appointment.Status,
) ([]models.Appointment, error) {

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND resource_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			businessID, resourceID, names, day.End, day.Start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, wrap("GetAppointmentsOnDate", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Business / catalog
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBusiness(ctx context.Context, id uint) (*models.Business, error) {
	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		return nil, wrap("GetBusiness", err)
	}
	return &biz, nil
}

func (r *ScheduleGormRepository) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&biz).Error; err != nil {
		return nil, wrap("GetBusinessBySlug", err)
	}
	return &biz, nil
}

func (r *ScheduleGormRepository) GetResource(ctx context.Context, businessID, resourceID uint) (*models.Resource, error) {
	var res models.Resource
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", resourceID, businessID).
		First(&res).Error; err != nil {
		return nil, wrap("GetResource", err)
	}
	return &res, nil
}

func (r *ScheduleGormRepository) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND active = true", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, wrap("GetService", err)
	}
	return &svc, nil
}

func (r *ScheduleGormRepository) UpdateResourcePhoto(ctx context.Context, businessID, resourceID uint, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ? AND business_id = ?", resourceID, businessID).
		Update("photo_url", url)
	if res.Error != nil {
		return wrap("UpdateResourcePhoto", res.Error)
	}
	if res.RowsAffected == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	businessID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap("GetOrCreateCustomer", err)
	}

	customer = models.Customer{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      strings.ToLower(email),
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, wrap("GetOrCreateCustomer", err)
	}

	return &customer, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(ctx context.Context, businessID, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, wrap("GetAppointment", err)
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return wrap("CreateAppointment", r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error)
}

func (r *ScheduleGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return wrap("UpdateAppointment", r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error)
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where("business_id = ? AND start_time >= ? AND start_time < ?", businessID, start, end)
	if resourceID != 0 {
		q = q.Where("resource_id = ?", resourceID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, wrap("ListAppointmentsForPeriod", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Blocked times
// --------------------------------------------------

func (r *ScheduleGormRepository) InsertBlockedTime(ctx context.Context, bt *models.BlockedTime) error {
	return wrap("InsertBlockedTime", r.db.WithContext(ctx).Create(bt).Error)
}

func (r *ScheduleGormRepository) DeleteBlockedTime(ctx context.Context, m schedule.BlockedTimeMatch) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND resource_id = ? AND appointment_id = ? AND start_time = ? AND end_time = ?",
			m.BusinessID, m.ResourceID, m.AppointmentID, m.Start, m.End,
		).
		Delete(&models.BlockedTime{})
	if res.Error != nil {
		return 0, wrap("DeleteBlockedTime", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ScheduleGormRepository) DeleteManualBlockedTime(ctx context.Context, businessID, resourceID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(
			"id = ? AND business_id = ? AND resource_id = ? AND appointment_id IS NULL",
			id, businessID, resourceID,
		).
		Delete(&models.BlockedTime{})
	if res.Error != nil {
		return 0, wrap("DeleteManualBlockedTime", res.Error)
	}
	return res.RowsAffected, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

// ReplaceWorkingHours swaps the whole week in one transaction.
func (r *ScheduleGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	week []schedule.WorkingHours,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.WorkingDay{}).
			Where("business_id = ? AND resource_id = ?", businessID, resourceID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		if len(ids) > 0 {
			if err := tx.Where("working_day_id IN ?", ids).Delete(&models.WorkingSlot{}).Error; err != nil {
				return err
			}
			if err := tx.Where("working_day_id IN ?", ids).Delete(&models.Break{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&models.WorkingDay{}).Error; err != nil {
				return err
			}
		}

		for _, wh := range week {
			day := wh.ToModel(businessID, resourceID)
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("ReplaceWorkingHours", err)
}

// --------------------------------------------------
// Serialization
// --------------------------------------------------

func (r *ScheduleGormRepository) LockResource(ctx context.Context, businessID, resourceID uint) error {
	var res models.Resource
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND business_id = ?", resourceID, businessID).
		First(&res).Error; err != nil {
		return wrap("LockResource", err)
	}
	return nil
}

func (r *ScheduleGormRepository) WithinTx(ctx context.Context, fn func(tx schedule.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
