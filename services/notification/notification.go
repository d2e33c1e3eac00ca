// Package notification pushes attendance events to the employer dashboards
// connected over websocket. Sessions only ever see their own tenant's events.
package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/olahol/melody"
)

// SessionEmployerKey is the melody session key holding the employer id
const SessionEmployerKey = "employerID"

// Event types
const (
	EventClockIn  = "clock_in"
	EventClockOut = "clock_out"
)

// Event is one message on the dashboard feed
type Event struct {
	Type         string    `json:"type"`
	EmployerID   uuid.UUID `json:"employerId"`
	EmployeeID   uuid.UUID `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Status       string    `json:"status"`
	IsLate       bool      `json:"isLate"`
	LateMinutes  int       `json:"lateMinutes"`
	At           time.Time `json:"at"`
}

type Service interface {
	Publish(ev Event) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// Publish sends ev to the sessions of ev.EmployerID
func (s *MelodyService) Publish(ev Event) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	msg, err := NewMessageBuilder(ev).Build()
	if err != nil {
		return err
	}
	tenant := ev.EmployerID.String()
	return s.m.BroadcastFilter(msg, func(q *melody.Session) bool {
		v, ok := q.Get(SessionEmployerKey)
		return ok && v == tenant
	})
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(Event) error { return nil }

type MessageBuilder struct {
	ev Event
}

func NewMessageBuilder(ev Event) *MessageBuilder {
	return &MessageBuilder{ev: ev}
}

func (b *MessageBuilder) Build() ([]byte, error) {
	return json.Marshal(b.ev)
}

// Keys returns the session keys for a dashboard connection of employerID
func Keys(employerID uuid.UUID) map[string]any {
	return map[string]any{SessionEmployerKey: employerID.String()}
}
