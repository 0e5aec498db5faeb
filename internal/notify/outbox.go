package notify

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// Outbox stores messages as notification rows for a separate sender.
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

func (o *Outbox) Notify(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return err
	}

	row := models.Notification{
		BusinessID:    msg.BusinessID,
		AppointmentID: msg.AppointmentID,
		Kind:          string(msg.Kind),
		Payload:       string(payload),
	}
	return o.db.WithContext(ctx).Create(&row).Error
}

var _ Notifier = (*Outbox)(nil)
