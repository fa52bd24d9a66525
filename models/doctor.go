package models

import "time"

// DoctorProfile is the row stored in the doctors table.
type DoctorProfile struct {
	ID              string  `json:"id"`
	Specialty       string  `json:"specialty"`
	Qualification   *string `json:"qualification,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee int64   `json:"consultation_fee"`
	Bio             *string `json:"bio,omitempty"`
	LicenseNumber   *string `json:"license_number,omitempty"`
	IsAvailable     bool    `json:"is_available"`
}

// Doctor is a row of the doctor_directory view.
type Doctor struct {
	DoctorProfile
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	IsActive  bool    `json:"is_active"`
}

type DoctorFilter struct {
	Specialty     string
	Search        string
	AvailableOnly bool
}

type UpdateDoctorRequest struct {
	Specialty       *string `json:"specialty,omitempty"`
	Qualification   *string `json:"qualification,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty" binding:"omitempty,min=0"`
	ConsultationFee *int64  `json:"consultation_fee,omitempty" binding:"omitempty,min=0"`
	Bio             *string `json:"bio,omitempty"`
	LicenseNumber   *string `json:"license_number,omitempty"`
	IsAvailable     *bool   `json:"is_available,omitempty"`
}

// TimeSlot is one bookable interval of a doctor's weekly availability.
type TimeSlot struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

type GenerateSlotsRequest struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required,weekday"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	EndTime     string `json:"end_time" binding:"required,hhmm"`
	SlotMinutes int    `json:"slot_minutes" binding:"required,min=5,max=240"`
}

type UpdateSlotRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type AvailableSlot struct {
	TimeSlotID string `json:"time_slot_id"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}
