package services

import (
	"context"
	"io"
	"time"

	"github.com/aladdinbruv/docproche-sub000/models"
)

// Storage ports implemented by the repository package.

type UserStore interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetActiveByPhone(phone string) (*models.User, error)
	GetMany(ids []string) ([]models.User, error)
	List(filter models.UserFilter) ([]models.User, error)
	Create(user *models.User) (*models.User, error)
	Update(id string, fields map[string]interface{}) (*models.User, error)
}

type DoctorStore interface {
	List(filter models.DoctorFilter) ([]models.Doctor, error)
	GetByID(id string) (*models.Doctor, error)
	GetProfile(id string) (*models.DoctorProfile, error)
	CreateProfile(id string) (*models.DoctorProfile, error)
	UpdateProfile(id string, fields map[string]interface{}) (*models.DoctorProfile, error)
}

type RefreshTokenStore interface {
	Create(userID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error)
	GetByHash(tokenHash string) (*models.RefreshToken, error)
	Revoke(id, replacedBy string) error
	RevokeAll(userID string) error
}

type OTPStore interface {
	Create(id, phone string, expiresAt time.Time) (*models.OTP, error)
	Latest(phone string) (*models.OTP, error)
	MarkUsed(id string) error
	SetAttempts(id string, previous, attempts int) error
	InvalidatePending(phone string) error
}

type TimeSlotStore interface {
	CreateMany(slots []models.TimeSlot) ([]models.TimeSlot, error)
	List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error)
	GetByID(id string) (*models.TimeSlot, error)
	SetAvailable(id string, available bool) (*models.TimeSlot, error)
	Delete(id string) error
}

type AppointmentStore interface {
	Create(a *models.Appointment) (*models.Appointment, error)
	GetByID(id string) (*models.Appointment, error)
	List(filter models.AppointmentFilter) ([]models.Appointment, error)
	ListBooked(doctorID, date string) ([]models.Appointment, error)
	FindActiveBySlot(slotID, date string) (*models.Appointment, error)
	ListFutureBySlot(slotID, fromDate string) ([]models.Appointment, error)
	HasRelationship(doctorID, patientID string) (bool, error)
	UpdateIfStatus(id string, current models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error)
	Update(id string, fields map[string]interface{}) (*models.Appointment, error)
}

type PrescriptionStore interface {
	Create(p *models.Prescription) (*models.Prescription, error)
	GetByID(id string) (*models.Prescription, error)
	List(filter models.PrescriptionFilter) ([]models.Prescription, error)
	SetStatus(id string, status models.PrescriptionStatus) (*models.Prescription, error)
}

type HealthRecordStore interface {
	Create(rec *models.HealthRecord) (*models.HealthRecord, error)
	GetByID(id string) (*models.HealthRecord, error)
	List(filter models.HealthRecordFilter, authorID string) ([]models.HealthRecord, error)
	SetFilePath(id, path string) (*models.HealthRecord, error)
	Delete(id string) error
}

type MessageStore interface {
	Create(m *models.Message) (*models.Message, error)
	Thread(a, b string, after *time.Time, limit int) ([]models.Message, error)
	Recent(userID string, limit int) ([]models.Message, error)
	MarkRead(senderID, receiverID string) ([]models.Message, error)
	CountUnread(receiverID string) (int, error)
}

type PaymentStore interface {
	Create(p *models.Payment) (*models.Payment, error)
	GetByOrderID(orderID string) (*models.Payment, error)
	List(patientID, appointmentID string) ([]models.Payment, error)
	ListForAppointment(appointmentID string, status models.PaymentState) ([]models.Payment, error)
	Update(id string, fields map[string]interface{}) (*models.Payment, error)
}

type FileStorage interface {
	Upload(bucket, path string, data io.Reader, contentType string) error
	SignedURL(bucket, path string, expiresInSeconds int) (string, error)
	PublicURL(bucket, path string) string
	Remove(bucket, path string) error
}

// AvailabilityCache holds computed free slots per doctor and date. Get
// reports the cache version it looked under; Set stores a result under that
// version, so a result computed across an Invalidate is never served.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, int64, bool)
	Set(ctx context.Context, doctorID, date string, version int64, slots []models.AvailableSlot)
	Invalidate(ctx context.Context, doctorID string)
}
