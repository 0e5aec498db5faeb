package models

import "time"

// WorkingDay holds a resource's open slots and breaks for one weekday.
// Minutes are counted from local midnight of the business timezone.
type WorkingDay struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex:ux_working_day" json:"business_id"`
	ResourceID uint `gorm:"uniqueIndex:ux_working_day" json:"resource_id"`
	Weekday    int  `gorm:"uniqueIndex:ux_working_day" json:"weekday"`
	Active     bool `json:"active"`

	Slots  []WorkingSlot `gorm:"constraint:OnDelete:CASCADE;" json:"slots"`
	Breaks []Break       `gorm:"constraint:OnDelete:CASCADE;" json:"breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WorkingSlot struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	WorkingDayID uint `gorm:"index" json:"working_day_id"`
	StartMinute  int  `json:"start_minute"`
	EndMinute    int  `json:"end_minute"`
}

type Break struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	WorkingDayID uint `gorm:"index" json:"working_day_id"`
	StartMinute  int  `json:"start_minute"`
	EndMinute    int  `json:"end_minute"`
}
