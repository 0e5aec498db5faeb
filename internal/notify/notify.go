package notify

import (
	"context"
	"sync"
)

type Kind string

const (
	KindAppointmentRequested   Kind = "appointment_requested"
	KindAppointmentConfirmed   Kind = "appointment_confirmed"
	KindAppointmentCancelled   Kind = "appointment_cancelled"
	KindAppointmentRescheduled Kind = "appointment_rescheduled"
)

type Message struct {
	BusinessID    uint
	AppointmentID uint
	Kind          Kind
	Data          map[string]any
}

// Notifier hands a message to whatever delivers it (email, SMS, push).
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Memory keeps messages in process. It backs the memory store driver and tests.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Notify(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}
