package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint `gorm:"index" json:"business_id"`
	ResourceID uint `gorm:"index" json:"resource_id"`
	CustomerID uint `json:"customer_id"`
	ServiceID  uint `json:"service_id"`

	Customer Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`
	Service  Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes        string `gorm:"size:255" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	// Payment taken at booking time, if any. A refund is owed on cancel
	// while PaymentID is set and RefundedAt is nil.
	PaymentID  *int64     `json:"payment_id"`
	AmountPaid float64    `json:"amount_paid"`
	RefundID   *int64     `json:"refund_id"`
	RefundedAt *time.Time `json:"refunded_at"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
