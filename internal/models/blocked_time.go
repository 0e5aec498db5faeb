package models

import "time"

// BlockedTime marks a resource as unavailable. Rows with an AppointmentID
// are owned by a confirmed appointment; the others are manual blocks.
type BlockedTime struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BusinessID    uint      `gorm:"index:ix_blocked_lookup" json:"business_id"`
	ResourceID    uint      `gorm:"index:ix_blocked_lookup" json:"resource_id"`
	AppointmentID *uint     `gorm:"index" json:"appointment_id"`
	StartTime     time.Time `gorm:"index:ix_blocked_lookup" json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Reason        string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
