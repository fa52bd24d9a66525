package models

import "time"

type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

type Medication struct {
	Name         string  `json:"name" binding:"required"`
	Dosage       string  `json:"dosage" binding:"required"`
	Frequency    string  `json:"frequency" binding:"required"`
	Duration     string  `json:"duration" binding:"required"`
	Instructions *string `json:"instructions,omitempty"`
}

type Prescription struct {
	ID            string             `json:"id"`
	AppointmentID string             `json:"appointment_id"`
	PatientID     string             `json:"patient_id"`
	DoctorID      string             `json:"doctor_id"`
	Diagnosis     string             `json:"diagnosis"`
	Medications   []Medication       `json:"medications"`
	Notes         *string            `json:"notes,omitempty"`
	Status        PrescriptionStatus `json:"status"`
	ValidUntil    *string            `json:"valid_until,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type CreatePrescriptionRequest struct {
	AppointmentID string       `json:"appointment_id" binding:"required"`
	Diagnosis     string       `json:"diagnosis" binding:"required"`
	Medications   []Medication `json:"medications" binding:"required,min=1,dive"`
	Notes         *string      `json:"notes,omitempty"`
	ValidUntil    *string      `json:"valid_until,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type UpdatePrescriptionStatusRequest struct {
	Status PrescriptionStatus `json:"status" binding:"required,oneof=active completed cancelled"`
}

type PrescriptionFilter struct {
	PatientID string
	DoctorID  string
	Status    PrescriptionStatus
}
