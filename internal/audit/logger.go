package audit

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// Sink persists audit rows.
type Sink interface {
	Write(ctx context.Context, entry models.AuditLog) error
}

// Store is a Sink that can also read the trail back, newest first.
type Store interface {
	Sink
	List(ctx context.Context, businessID uint, action string, limit int) ([]models.AuditLog, error)
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, entry models.AuditLog) error {
	return l.db.WithContext(ctx).Create(&entry).Error
}

func (l *Logger) List(ctx context.Context, businessID uint, action string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	q := l.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Limit(limit)
	if action != "" {
		q = q.Where("action = ?", action)
	}

	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Memory keeps the trail in process.
type Memory struct {
	mu     sync.Mutex
	nextID uint
	logs   []models.AuditLog
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Write(_ context.Context, entry models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, entry)
	return nil
}

func (m *Memory) List(_ context.Context, businessID uint, action string, limit int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.AuditLog
	for _, l := range m.logs {
		if l.BusinessID != businessID {
			continue
		}
		if action != "" && l.Action != action {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func toEntry(ev Event) models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return models.AuditLog{
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}
}
