package dto

import "time"

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	ResourceID   uint      `json:"resource_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	ServiceName  string    `json:"service_name"`
}
