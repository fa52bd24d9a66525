package models

import "time"

type RecordType string

const (
	RecordDiagnosis   RecordType = "diagnosis"
	RecordLabResult   RecordType = "lab_result"
	RecordImaging     RecordType = "imaging"
	RecordVaccination RecordType = "vaccination"
	RecordNote        RecordType = "note"
)

type HealthRecord struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patient_id"`
	DoctorID      *string    `json:"doctor_id,omitempty"`
	AppointmentID *string    `json:"appointment_id,omitempty"`
	RecordType    RecordType `json:"record_type"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	FilePath      *string    `json:"file_path,omitempty"`
	RecordDate    string     `json:"record_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateHealthRecordRequest struct {
	PatientID     string     `json:"patient_id" binding:"required"`
	AppointmentID *string    `json:"appointment_id,omitempty"`
	RecordType    RecordType `json:"record_type" binding:"required,oneof=diagnosis lab_result imaging vaccination note"`
	Title         string     `json:"title" binding:"required,max=200"`
	Description   *string    `json:"description,omitempty"`
	RecordDate    string     `json:"record_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type HealthRecordFilter struct {
	PatientID  string
	RecordType RecordType
}
