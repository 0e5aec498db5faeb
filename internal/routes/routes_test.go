package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/infra/memstore"
	"github.com/BruksfildServices01/booking-availability/internal/lock"
	"github.com/BruksfildServices01/booking-availability/internal/media"
	"github.com/BruksfildServices01/booking-availability/internal/middleware"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/payment"
)

const secret = "test-secret"

type server struct {
	t          *testing.T
	router     *gin.Engine
	store      *memstore.Store
	dispatcher *audit.Dispatcher
	token      string

	biz models.Business
	res models.Resource
	svc models.Service
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	biz := store.AddBusiness(models.Business{Name: "Studio", Slug: "studio", Timezone: "UTC"})
	res := store.AddResource(models.Resource{BusinessID: biz.ID, Name: "Ana", Active: true})
	svc := store.AddService(models.Service{BusinessID: biz.ID, Name: "Cut", DurationMin: 30, Active: true})

	week := []schedule.WorkingHours{{
		Weekday: interval.Monday,
		Active:  true,
		Slots:   []interval.ClockRange{{Start: 9 * 60, End: 17 * 60}},
	}}
	if err := store.ReplaceWorkingHours(context.Background(), biz.ID, res.ID, week); err != nil {
		t.Fatal(err)
	}

	auditStore := audit.NewMemory()
	dispatcher := audit.NewDispatcher(auditStore, zap.NewNop())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Repo:                store,
		Locker:              lock.NewMemory(),
		AuditStore:          auditStore,
		Audit:               dispatcher,
		Notifier:            notify.NewMemory(),
		Refunder:            &payment.Memory{},
		Objects:             media.NewMemory("https://cdn.test"),
		Logger:              zap.NewNop(),
		JWTSecret:           secret,
		PublicRatePerMinute: 1000,
		Clock: func() time.Time {
			return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		},
	})

	token, err := middleware.IssueToken(secret, 1, biz.ID, "owner")
	if err != nil {
		t.Fatal(err)
	}

	return &server{
		t:          t,
		router:     r,
		store:      store,
		dispatcher: dispatcher,
		token:      token,
		biz:        biz,
		res:        res,
		svc:        svc,
	}
}

func (s *server) do(method, path string, body any, auth bool) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Code   string `json:"error_code"`
	Reason string `json:"reason"`
}

type slotList struct {
	Data []struct {
		Start string `json:"start"`
	} `json:"data"`
	Total int `json:"total"`
}

type appointmentBody struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func (s *server) book(hm, phone string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/public/studio/appointments", map[string]any{
		"resource_id":    s.res.ID,
		"service_id":     s.svc.ID,
		"customer_name":  "Bia",
		"customer_phone": phone,
		"date":           "2026-03-02",
		"time":           hm,
	}, false)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	if w := s.do(http.MethodGet, "/health", nil, false); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPublicBookingFlow(t *testing.T) {
	s := newServer(t)

	w := s.book("10:00", "11988887777")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[appointmentBody](t, w)
	if created.Status != "pending" {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	w = s.book("10:15", "11977776666")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if body := decode[errorBody](t, w); body.Code != "slot_unavailable" || body.Reason != "appointment_conflict" {
		t.Fatalf("unexpected body %+v", body)
	}

	path := fmt.Sprintf("/api/public/studio/availability?resource_id=%d&service_id=%d&date=2026-03-02", s.res.ID, s.svc.ID)
	w = s.do(http.MethodGet, path, nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	slots := decode[slotList](t, w)
	starts := map[string]bool{}
	for _, sl := range slots.Data {
		starts[sl.Start] = true
	}
	if starts["10:00"] || starts["10:15"] || !starts["10:30"] || !starts["09:30"] {
		t.Fatalf("unexpected slots %v", starts)
	}
	if slots.Total != len(slots.Data) {
		t.Fatal("total should match data")
	}

	check := fmt.Sprintf("/api/public/studio/availability/check?resource_id=%d&date=2026-03-02&start=10:15&end=10:45", s.res.ID)
	w = s.do(http.MethodGet, check, nil, false)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"reason":"appointment_conflict"`)) {
		t.Fatalf("unexpected check response %d %s", w.Code, w.Body.String())
	}
}

func TestPublicValidation(t *testing.T) {
	s := newServer(t)

	if w := s.book("10:00", "12"); w.Code != http.StatusBadRequest {
		t.Fatalf("short phone should be rejected, got %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/public/nope/availability?resource_id=1&service_id=1&date=2026-03-02", nil, false); w.Code != http.StatusNotFound {
		t.Fatalf("unknown slug should be 404, got %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/public/studio/appointments", map[string]any{"date": "2026-03-02"}, false); w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields should be 400, got %d", w.Code)
	}
}

func TestStaffLifecycle(t *testing.T) {
	s := newServer(t)

	created := decode[appointmentBody](t, s.book("10:00", "11988887777"))
	base := fmt.Sprintf("/api/me/appointments/%d", created.ID)

	if w := s.do(http.MethodPatch, base+"/confirm", nil, false); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w := s.do(http.MethodPatch, base+"/confirm", nil, true)
	if w.Code != http.StatusOK || decode[appointmentBody](t, w).Status != "confirmed" {
		t.Fatalf("confirm failed: %d %s", w.Code, w.Body.String())
	}
	if len(s.store.BlockedTimes(s.biz.ID, s.res.ID)) != 1 {
		t.Fatal("confirm should write a block")
	}

	w = s.do(http.MethodPatch, base+"/reschedule", map[string]any{"date": "2026-03-02", "start_time": "16:45"}, true)
	if w.Code != http.StatusConflict || decode[errorBody](t, w).Reason != "outside_working_hours" {
		t.Fatalf("expected 409 outside_working_hours, got %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPatch, base+"/reschedule", map[string]any{"date": "2026-03-02", "start_time": "14:00"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule failed: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/me/appointments?date=2026-03-02", nil, true)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"customer_name":"Bia"`)) {
		t.Fatalf("unexpected list %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPatch, base+"/cancel", map[string]any{"reason": "sick"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", w.Code, w.Body.String())
	}
	w = s.do(http.MethodPatch, base+"/cancel", nil, true)
	if w.Code != http.StatusBadRequest || decode[errorBody](t, w).Code != "already_cancelled" {
		t.Fatalf("expected already_cancelled, got %d %s", w.Code, w.Body.String())
	}
	if len(s.store.BlockedTimes(s.biz.ID, s.res.ID)) != 0 {
		t.Fatal("cancel should remove the block")
	}

	if w := s.do(http.MethodPatch, "/api/me/appointments/999/confirm", nil, true); w.Code != http.StatusNotFound {
		t.Fatalf("unknown appointment should be 404, got %d", w.Code)
	}
	if w := s.do(http.MethodPatch, "/api/me/appointments/abc/confirm", nil, true); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id should be 400, got %d", w.Code)
	}

	s.dispatcher.Close()
	w = s.do(http.MethodGet, "/api/me/audit-logs?action=appointment_cancelled", nil, true)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"total":1`)) {
		t.Fatalf("unexpected audit logs %d %s", w.Code, w.Body.String())
	}
}

func TestWorkingHoursEndpoints(t *testing.T) {
	s := newServer(t)
	path := fmt.Sprintf("/api/me/resources/%d/working-hours", s.res.ID)

	body := map[string]any{
		"days": []map[string]any{{
			"weekday": 2,
			"active":  true,
			"slots":   []map[string]string{{"start": "08:00", "end": "12:00"}, {"start": "13:00", "end": "18:00"}},
			"breaks":  []map[string]string{{"start": "10:00", "end": "10:15"}},
		}},
	}
	if w := s.do(http.MethodPut, path, body, true); w.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, path, nil, true)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`{"start":"13:00","end":"18:00"}`)) {
		t.Fatalf("unexpected week %d %s", w.Code, w.Body.String())
	}

	// Monday was dropped from the week
	check := fmt.Sprintf("/api/me/resources/%d/availability/check?date=2026-03-02&start=10:00&end=10:30", s.res.ID)
	if w := s.do(http.MethodGet, check, nil, true); !bytes.Contains(w.Body.Bytes(), []byte("not_working_day")) {
		t.Fatalf("expected not_working_day, got %s", w.Body.String())
	}

	bad := map[string]any{"days": []map[string]any{{
		"weekday": 1,
		"active":  true,
		"slots":   []map[string]string{{"start": "12:00", "end": "09:00"}},
	}}}
	if w := s.do(http.MethodPut, path, bad, true); w.Code != http.StatusBadRequest {
		t.Fatalf("inverted slot should be 400, got %d", w.Code)
	}

	dup := map[string]any{"days": []map[string]any{{"weekday": 1}, {"weekday": 1}}}
	if w := s.do(http.MethodPut, path, dup, true); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate weekday should be 400, got %d", w.Code)
	}

	if w := s.do(http.MethodGet, "/api/me/resources/999/working-hours", nil, true); w.Code != http.StatusNotFound {
		t.Fatalf("unknown resource should be 404, got %d", w.Code)
	}
}

func TestBlockedTimeEndpoints(t *testing.T) {
	s := newServer(t)
	path := fmt.Sprintf("/api/me/resources/%d/blocked-times", s.res.ID)

	w := s.do(http.MethodPost, path, map[string]any{"date": "2026-03-02", "start": "12:00", "end": "13:00", "reason": "lunch"}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	created := decode[struct {
		ID uint `json:"id"`
	}](t, w)

	check := fmt.Sprintf("/api/me/resources/%d/availability/check?date=2026-03-02&start=12:30&end=13:00", s.res.ID)
	if w := s.do(http.MethodGet, check, nil, true); !bytes.Contains(w.Body.Bytes(), []byte("blocked_conflict")) {
		t.Fatalf("expected blocked_conflict, got %s", w.Body.String())
	}

	w = s.do(http.MethodGet, path+"?from=2026-03-02", nil, true)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"total":1`)) {
		t.Fatalf("unexpected list %d %s", w.Code, w.Body.String())
	}

	if w := s.do(http.MethodPost, path, map[string]any{"date": "2026-03-02", "start": "13:00", "end": "12:00"}, true); w.Code != http.StatusBadRequest {
		t.Fatalf("inverted block should be 400, got %d", w.Code)
	}

	if w := s.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, created.ID), nil, true); w.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", w.Code)
	}
	if w := s.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, created.ID), nil, true); w.Code != http.StatusNotFound {
		t.Fatalf("second delete should be 404, got %d", w.Code)
	}
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	s := newServer(t)
	s.store.Fail("GetBlockedTimes", errors.New("connection refused"))

	check := fmt.Sprintf("/api/public/studio/availability/check?resource_id=%d&date=2026-03-02&start=10:00&end=10:30", s.res.ID)
	w := s.do(http.MethodGet, check, nil, false)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %s", w.Code, w.Body.String())
	}

	if w := s.book("10:00", "11988887777"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("booking should be 503 too, got %d", w.Code)
	}
}

func TestPhotoUpload(t *testing.T) {
	s := newServer(t)

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "me.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(img.Bytes()); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/me/resources/%d/photo", s.res.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("https://cdn.test/resources/")) {
		t.Fatalf("unexpected upload response %d %s", w.Code, w.Body.String())
	}
}
