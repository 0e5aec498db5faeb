package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// Store is an in-process schedule.Repository. Transactions are serialized
// and rolled back by restoring a snapshot. Writes made outside a
// transaction wait for the running one, so a rollback only ever discards
// the transaction's own writes. It mirrors the Postgres overlap constraint
// on occupying appointments.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	st    *state
	fails map[string]error
}

type state struct {
	nextID       uint
	businesses   map[uint]models.Business
	resources    map[uint]models.Resource
	services     map[uint]models.Service
	customers    map[uint]models.Customer
	week         map[[2]uint][]schedule.WorkingHours
	blocked      map[uint]models.BlockedTime
	appointments map[uint]models.Appointment
}

func New() *Store {
	return &Store{fails: map[string]error{}, st: &state{
		businesses:   map[uint]models.Business{},
		resources:    map[uint]models.Resource{},
		services:     map[uint]models.Service{},
		customers:    map[uint]models.Customer{},
		week:         map[[2]uint][]schedule.WorkingHours{},
		blocked:      map[uint]models.BlockedTime{},
		appointments: map[uint]models.Appointment{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		nextID:       s.nextID,
		businesses:   make(map[uint]models.Business, len(s.businesses)),
		resources:    make(map[uint]models.Resource, len(s.resources)),
		services:     make(map[uint]models.Service, len(s.services)),
		customers:    make(map[uint]models.Customer, len(s.customers)),
		week:         make(map[[2]uint][]schedule.WorkingHours, len(s.week)),
		blocked:      make(map[uint]models.BlockedTime, len(s.blocked)),
		appointments: make(map[uint]models.Appointment, len(s.appointments)),
	}
	for k, v := range s.businesses {
		c.businesses[k] = v
	}
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.week {
		c.week[k] = append([]schedule.WorkingHours(nil), v...)
	}
	for k, v := range s.blocked {
		c.blocked[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

// Fail makes every later call of op return err as a RepositoryError.
// A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fails, op)
		return
	}
	s.fails[op] = err
}

func (s *Store) failLocked(op string) error {
	if err, ok := s.fails[op]; ok {
		return &schedule.RepositoryError{Op: op, Err: err}
	}
	return nil
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

// --------------------------------------------------
// Seeding (tests and memory driver)
// --------------------------------------------------

func (s *Store) AddBusiness(b models.Business) models.Business {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.st.id()
	}
	s.st.businesses[b.ID] = b
	return b
}

func (s *Store) AddResource(r models.Resource) models.Resource {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.st.id()
	}
	s.st.resources[r.ID] = r
	return r
}

func (s *Store) AddService(sv models.Service) models.Service {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if sv.ID == 0 {
		sv.ID = s.st.id()
	}
	s.st.services[sv.ID] = sv
	return sv
}

// BlockedTimes returns every stored block for a resource, ordered by start.
func (s *Store) BlockedTimes(businessID, resourceID uint) []models.BlockedTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BlockedTime
	for _, bt := range s.st.blocked {
		if bt.BusinessID == businessID && bt.ResourceID == resourceID {
			out = append(out, bt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// --------------------------------------------------
// Reader
// --------------------------------------------------

func (s *Store) GetWorkingHours(_ context.Context, businessID, resourceID uint) ([]schedule.WorkingHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("GetWorkingHours"); err != nil {
		return nil, err
	}
	return append([]schedule.WorkingHours(nil), s.st.week[[2]uint{businessID, resourceID}]...), nil
}

func (s *Store) GetBlockedTimes(_ context.Context, businessID, resourceID uint, rangeStart, rangeEnd time.Time) ([]models.BlockedTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("GetBlockedTimes"); err != nil {
		return nil, err
	}
	window := interval.New(rangeStart, rangeEnd)
	var out []models.BlockedTime
	for _, bt := range s.st.blocked {
		if bt.BusinessID != businessID || bt.ResourceID != resourceID {
			continue
		}
		if interval.Overlaps(window, interval.New(bt.StartTime, bt.EndTime)) {
			out = append(out, bt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) GetAppointmentsOnDate(_ context.Context, businessID, resourceID uint, day interval.Interval, statuses []appointment.Status) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("GetAppointmentsOnDate"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, ap := range s.st.appointments {
		if ap.BusinessID != businessID || ap.ResourceID != resourceID {
			continue
		}
		if !hasStatus(statuses, appointment.Status(ap.Status)) {
			continue
		}
		if interval.Overlaps(day, interval.New(ap.StartTime, ap.EndTime)) {
			out = append(out, ap)
		}
	}
	sortAppointments(out)
	return out, nil
}

// --------------------------------------------------
// Business / catalog
// --------------------------------------------------

func (s *Store) GetBusiness(_ context.Context, id uint) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.businesses[id]
	if !ok {
		return nil, schedule.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.st.businesses {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, schedule.ErrNotFound
}

func (s *Store) GetResource(_ context.Context, businessID, resourceID uint) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.resources[resourceID]
	if !ok || r.BusinessID != businessID {
		return nil, schedule.ErrNotFound
	}
	return &r, nil
}

func (s *Store) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.st.services[serviceID]
	if !ok || sv.BusinessID != businessID {
		return nil, schedule.ErrNotFound
	}
	return &sv, nil
}

func (s *Store) updateResourcePhoto(businessID, resourceID uint, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("UpdateResourcePhoto"); err != nil {
		return err
	}
	r, ok := s.st.resources[resourceID]
	if !ok || r.BusinessID != businessID {
		return schedule.ErrNotFound
	}
	r.PhotoURL = url
	s.st.resources[resourceID] = r
	return nil
}

func (s *Store) getOrCreateCustomer(businessID uint, name, phone, email string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("GetOrCreateCustomer"); err != nil {
		return nil, err
	}
	for _, c := range s.st.customers {
		if c.BusinessID == businessID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Customer{
		ID:         s.st.id(),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      strings.ToLower(email),
		CreatedAt:  time.Now(),
	}
	s.st.customers[c.ID] = c
	return &c, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *Store) GetAppointment(_ context.Context, businessID, appointmentID uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.st.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID {
		return nil, schedule.ErrNotFound
	}
	return &ap, nil
}

func (s *Store) createAppointment(ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateAppointment"); err != nil {
		return err
	}
	if err := s.checkOverlapLocked(*ap); err != nil {
		return err
	}
	ap.ID = s.st.id()
	now := time.Now()
	ap.CreatedAt, ap.UpdatedAt = now, now
	s.st.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) updateAppointment(ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("UpdateAppointment"); err != nil {
		return err
	}
	if _, ok := s.st.appointments[ap.ID]; !ok {
		return schedule.ErrNotFound
	}
	if err := s.checkOverlapLocked(*ap); err != nil {
		return err
	}
	ap.UpdatedAt = time.Now()
	s.st.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) ListAppointmentsForPeriod(_ context.Context, businessID, resourceID uint, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.st.appointments {
		if ap.BusinessID != businessID {
			continue
		}
		if resourceID != 0 && ap.ResourceID != resourceID {
			continue
		}
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			ap.Customer = s.st.customers[ap.CustomerID]
			ap.Service = s.st.services[ap.ServiceID]
			out = append(out, ap)
		}
	}
	sortAppointments(out)
	return out, nil
}

// checkOverlapLocked enforces what the exclusion constraint enforces in
// Postgres: occupying appointments of one resource never overlap.
func (s *Store) checkOverlapLocked(ap models.Appointment) error {
	if !appointment.Status(ap.Status).Occupies() {
		return nil
	}
	iv := interval.New(ap.StartTime, ap.EndTime)
	for _, other := range s.st.appointments {
		if other.ID == ap.ID || other.ResourceID != ap.ResourceID {
			continue
		}
		if !appointment.Status(other.Status).Occupies() {
			continue
		}
		if interval.Overlaps(iv, interval.New(other.StartTime, other.EndTime)) {
			return schedule.Conflict(schedule.ReasonAppointmentConflict)
		}
	}
	return nil
}

// --------------------------------------------------
// Blocked times
// --------------------------------------------------

func (s *Store) insertBlockedTime(bt *models.BlockedTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("InsertBlockedTime"); err != nil {
		return err
	}
	bt.ID = s.st.id()
	bt.CreatedAt = time.Now()
	s.st.blocked[bt.ID] = *bt
	return nil
}

func (s *Store) deleteBlockedTime(m schedule.BlockedTimeMatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("DeleteBlockedTime"); err != nil {
		return 0, err
	}
	var n int64
	for id, bt := range s.st.blocked {
		if bt.BusinessID != m.BusinessID || bt.ResourceID != m.ResourceID {
			continue
		}
		if bt.AppointmentID == nil || *bt.AppointmentID != m.AppointmentID {
			continue
		}
		if !bt.StartTime.Equal(m.Start) || !bt.EndTime.Equal(m.End) {
			continue
		}
		delete(s.st.blocked, id)
		n++
	}
	return n, nil
}

func (s *Store) deleteManualBlockedTime(businessID, resourceID, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("DeleteManualBlockedTime"); err != nil {
		return 0, err
	}
	bt, ok := s.st.blocked[id]
	if !ok || bt.BusinessID != businessID || bt.ResourceID != resourceID || bt.AppointmentID != nil {
		return 0, nil
	}
	delete(s.st.blocked, id)
	return 1, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (s *Store) replaceWorkingHours(businessID, resourceID uint, week []schedule.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("ReplaceWorkingHours"); err != nil {
		return err
	}
	s.st.week[[2]uint{businessID, resourceID}] = append([]schedule.WorkingHours(nil), week...)
	return nil
}

// --------------------------------------------------
// Serialization
// --------------------------------------------------

// LockResource is a no-op: transactions are already serialized.
func (s *Store) LockResource(context.Context, uint, uint) error {
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx schedule.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(&txStore{Store: s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// txStore joins the running transaction instead of opening a new one.
type txStore struct {
	*Store
}

func (t *txStore) WithinTx(_ context.Context, fn func(tx schedule.Repository) error) error {
	return fn(t)
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

// Each write has an outer form that waits on txMu and a txStore form that
// runs inside the transaction already holding it.

func (s *Store) UpdateResourcePhoto(_ context.Context, businessID, resourceID uint, url string) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.updateResourcePhoto(businessID, resourceID, url)
}

func (s *Store) GetOrCreateCustomer(_ context.Context, businessID uint, name, phone, email string) (*models.Customer, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.getOrCreateCustomer(businessID, name, phone, email)
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.createAppointment(ap)
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.updateAppointment(ap)
}

func (s *Store) InsertBlockedTime(_ context.Context, bt *models.BlockedTime) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.insertBlockedTime(bt)
}

func (s *Store) DeleteBlockedTime(_ context.Context, m schedule.BlockedTimeMatch) (int64, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.deleteBlockedTime(m)
}

func (s *Store) DeleteManualBlockedTime(_ context.Context, businessID, resourceID, id uint) (int64, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.deleteManualBlockedTime(businessID, resourceID, id)
}

func (s *Store) ReplaceWorkingHours(_ context.Context, businessID, resourceID uint, week []schedule.WorkingHours) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.replaceWorkingHours(businessID, resourceID, week)
}

func (t *txStore) UpdateResourcePhoto(_ context.Context, businessID, resourceID uint, url string) error {
	return t.updateResourcePhoto(businessID, resourceID, url)
}

func (t *txStore) GetOrCreateCustomer(_ context.Context, businessID uint, name, phone, email string) (*models.Customer, error) {
	return t.getOrCreateCustomer(businessID, name, phone, email)
}

func (t *txStore) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return t.createAppointment(ap)
}

func (t *txStore) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	return t.updateAppointment(ap)
}

func (t *txStore) InsertBlockedTime(_ context.Context, bt *models.BlockedTime) error {
	return t.insertBlockedTime(bt)
}

func (t *txStore) DeleteBlockedTime(_ context.Context, m schedule.BlockedTimeMatch) (int64, error) {
	return t.deleteBlockedTime(m)
}

func (t *txStore) DeleteManualBlockedTime(_ context.Context, businessID, resourceID, id uint) (int64, error) {
	return t.deleteManualBlockedTime(businessID, resourceID, id)
}

func (t *txStore) ReplaceWorkingHours(_ context.Context, businessID, resourceID uint, week []schedule.WorkingHours) error {
	return t.replaceWorkingHours(businessID, resourceID, week)
}

func hasStatus(statuses []appointment.Status, s appointment.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func sortAppointments(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool { return aps[i].StartTime.Before(aps[j].StartTime) })
}

var (
	_ schedule.Repository = (*Store)(nil)
	_ schedule.Repository = (*txStore)(nil)
)
