package models

import "time"

// Notification is an outbox row; a separate sender delivers it.
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BusinessID    uint       `gorm:"index" json:"business_id"`
	AppointmentID uint       `gorm:"index" json:"appointment_id"`
	Kind          string     `gorm:"size:50;not null" json:"kind"`
	Payload       string     `gorm:"type:text" json:"payload"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
