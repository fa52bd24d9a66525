package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Routing keys on the topic exchange.
const (
	AppointmentCreated       = "appointment.created"
	AppointmentStatusChanged = "appointment.status_changed"
	PrescriptionIssued       = "prescription.issued"
	PaymentCompleted         = "payment.completed"
)

// Event is the JSON envelope published for every domain event.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
	Close() error
}

type AppointmentPayload struct {
	AppointmentID    string `json:"appointment_id"`
	PatientID        string `json:"patient_id"`
	DoctorID         string `json:"doctor_id"`
	AppointmentDate  string `json:"appointment_date"`
	StartTime        string `json:"start_time"`
	ConsultationType string `json:"consultation_type"`
	Status           string `json:"status"`
	PreviousStatus   string `json:"previous_status,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

type PrescriptionPayload struct {
	PrescriptionID string `json:"prescription_id"`
	AppointmentID  string `json:"appointment_id"`
	PatientID      string `json:"patient_id"`
	DoctorID       string `json:"doctor_id"`
}

type PaymentPayload struct {
	PaymentID     string `json:"payment_id"`
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// NewEvent wraps payload in an envelope stamped with the current time.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// ErrDrop marks a message that cannot succeed on retry.
var ErrDrop = errors.New("drop message")
