package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

type ConsultationType string

const (
	ConsultationInPerson ConsultationType = "in_person"
	ConsultationVideo    ConsultationType = "video"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Appointment struct {
	ID                 string            `json:"id"`
	PatientID          string            `json:"patient_id"`
	DoctorID           string            `json:"doctor_id"`
	TimeSlotID         string            `json:"time_slot_id"`
	AppointmentDate    string            `json:"appointment_date"`
	StartTime          string            `json:"start_time"`
	EndTime            string            `json:"end_time"`
	Status             AppointmentStatus `json:"status"`
	ConsultationType   ConsultationType  `json:"consultation_type"`
	Reason             *string           `json:"reason,omitempty"`
	Notes              *string           `json:"notes,omitempty"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	PaymentStatus      PaymentStatus     `json:"payment_status"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type CreateAppointmentRequest struct {
	DoctorID         string           `json:"doctor_id" binding:"required"`
	TimeSlotID       string           `json:"time_slot_id" binding:"required"`
	AppointmentDate  string           `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	ConsultationType ConsultationType `json:"consultation_type" binding:"required,oneof=in_person video"`
	Reason           *string          `json:"reason,omitempty"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled no_show"`
	Reason *string           `json:"reason,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}

type RescheduleRequest struct {
	TimeSlotID      string `json:"time_slot_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required,datetime=2006-01-02"`
}

type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    AppointmentStatus
	From      string
	To        string
}

type DoctorDashboard struct {
	Today    []Appointment             `json:"today"`
	Counts   map[AppointmentStatus]int `json:"counts"`
	Upcoming int                       `json:"upcoming"`
}
