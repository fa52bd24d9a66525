package handlers

import (
	"context"
	"io"
	"time"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

// The interfaces below are the slices of the services package each handler
// depends on.

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Refresh(ctx context.Context, raw string) (*models.LoginResponse, error)
	Logout(ctx context.Context, userID string) error
	RequestOTP(ctx context.Context, phone string) (*models.OTPResponse, error)
	VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.LoginResponse, error)
}

type ProfileService interface {
	Get(userID string) (*models.Profile, error)
	Update(userID string, req models.UpdateProfileRequest) (*models.Profile, error)
	UpdateDoctor(doctorID string, req models.UpdateDoctorRequest) (*models.DoctorProfile, error)
	UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, data io.Reader) (*models.Profile, error)
}

type DoctorDirectory interface {
	List(filter models.DoctorFilter) ([]models.Doctor, error)
	Get(id string) (*models.Doctor, error)
}

type TimeSlotService interface {
	Generate(ctx context.Context, doctorID string, req models.GenerateSlotsRequest) ([]models.TimeSlot, error)
	List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error)
	Available(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, error)
	SetAvailable(ctx context.Context, doctorID, slotID string, available bool) (*models.TimeSlot, error)
	Delete(ctx context.Context, doctorID, slotID string) error
}

type AppointmentService interface {
	Book(ctx context.Context, patientID string, req models.CreateAppointmentRequest) (*models.Appointment, error)
	List(actor services.Actor, filter models.AppointmentFilter, upcoming bool) ([]models.Appointment, error)
	Get(actor services.Actor, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, actor services.Actor, id string, req models.UpdateStatusRequest) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor services.Actor, id string, req models.RescheduleRequest) (*models.Appointment, error)
	Dashboard(doctorID string) (*models.DoctorDashboard, error)
}

type PrescriptionService interface {
	Create(ctx context.Context, doctorID string, req models.CreatePrescriptionRequest) (*models.Prescription, error)
	List(actor services.Actor, filter models.PrescriptionFilter) ([]models.Prescription, error)
	Get(actor services.Actor, id string) (*models.Prescription, error)
	UpdateStatus(actor services.Actor, id string, status models.PrescriptionStatus) (*models.Prescription, error)
	PDF(actor services.Actor, id string) ([]byte, string, error)
}

type HealthRecordService interface {
	Create(ctx context.Context, actor services.Actor, req models.CreateHealthRecordRequest) (*models.HealthRecord, error)
	List(actor services.Actor, filter models.HealthRecordFilter) ([]models.HealthRecord, error)
	Get(actor services.Actor, id string) (*models.HealthRecord, error)
	Delete(ctx context.Context, actor services.Actor, id string) error
	AttachFile(ctx context.Context, actor services.Actor, id, filename, contentType string, size int64, data io.Reader) (*models.HealthRecord, error)
	FileURL(actor services.Actor, id string) (string, error)
}

type MessageService interface {
	Send(senderID string, req models.SendMessageRequest) (*models.Message, error)
	Thread(userID, otherID string, after *time.Time, limit int) ([]models.Message, error)
	Conversations(userID string) ([]models.Conversation, error)
	MarkRead(userID, senderID string) (int, error)
	UnreadCount(userID string) (int, error)
}

type PaymentService interface {
	CreateOrder(ctx context.Context, patientID, appointmentID string) (*models.OrderResponse, error)
	Verify(ctx context.Context, patientID string, req models.VerifyPaymentRequest) (*models.Payment, error)
	List(patientID, appointmentID string) ([]models.Payment, error)
}

type VideoService interface {
	Token(actor services.Actor, appointmentID string) (*models.VideoToken, error)
}

type AdminService interface {
	ListUsers(filter models.UserFilter) ([]models.User, error)
	SetActive(actor services.Actor, userID string, active bool) (*models.User, error)
}
