package handlers

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	return loginArgs(m.Called(req))
}

func (m *MockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return loginArgs(m.Called(req))
}

func (m *MockAuthService) Refresh(ctx context.Context, raw string) (*models.LoginResponse, error) {
	return loginArgs(m.Called(raw))
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

func (m *MockAuthService) RequestOTP(ctx context.Context, phone string) (*models.OTPResponse, error) {
	args := m.Called(phone)
	r, _ := args.Get(0).(*models.OTPResponse)
	return r, args.Error(1)
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.LoginResponse, error) {
	return loginArgs(m.Called(req))
}

func loginArgs(args mock.Arguments) (*models.LoginResponse, error) {
	r, _ := args.Get(0).(*models.LoginResponse)
	return r, args.Error(1)
}

type MockProfileService struct{ mock.Mock }

func (m *MockProfileService) Get(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	r, _ := args.Get(0).(*models.Profile)
	return r, args.Error(1)
}

func (m *MockProfileService) Update(userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(userID, req)
	r, _ := args.Get(0).(*models.Profile)
	return r, args.Error(1)
}

func (m *MockProfileService) UpdateDoctor(doctorID string, req models.UpdateDoctorRequest) (*models.DoctorProfile, error) {
	args := m.Called(doctorID, req)
	r, _ := args.Get(0).(*models.DoctorProfile)
	return r, args.Error(1)
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, data io.Reader) (*models.Profile, error) {
	body, _ := io.ReadAll(data)
	args := m.Called(userID, filename, contentType, size, string(body))
	r, _ := args.Get(0).(*models.Profile)
	return r, args.Error(1)
}

type MockDoctorDirectory struct{ mock.Mock }

func (m *MockDoctorDirectory) List(filter models.DoctorFilter) ([]models.Doctor, error) {
	args := m.Called(filter)
	r, _ := args.Get(0).([]models.Doctor)
	return r, args.Error(1)
}

func (m *MockDoctorDirectory) Get(id string) (*models.Doctor, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(*models.Doctor)
	return r, args.Error(1)
}

type MockTimeSlotService struct{ mock.Mock }

func (m *MockTimeSlotService) Generate(ctx context.Context, doctorID string, req models.GenerateSlotsRequest) ([]models.TimeSlot, error) {
	args := m.Called(doctorID, req)
	r, _ := args.Get(0).([]models.TimeSlot)
	return r, args.Error(1)
}

func (m *MockTimeSlotService) List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error) {
	args := m.Called(doctorID, dayOfWeek)
	r, _ := args.Get(0).([]models.TimeSlot)
	return r, args.Error(1)
}

func (m *MockTimeSlotService) Available(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, error) {
	args := m.Called(doctorID, date)
	r, _ := args.Get(0).([]models.AvailableSlot)
	return r, args.Error(1)
}

func (m *MockTimeSlotService) SetAvailable(ctx context.Context, doctorID, slotID string, available bool) (*models.TimeSlot, error) {
	args := m.Called(doctorID, slotID, available)
	r, _ := args.Get(0).(*models.TimeSlot)
	return r, args.Error(1)
}

func (m *MockTimeSlotService) Delete(ctx context.Context, doctorID, slotID string) error {
	return m.Called(doctorID, slotID).Error(0)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) ListUsers(filter models.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	r, _ := args.Get(0).([]models.User)
	return r, args.Error(1)
}

func (m *MockAdminService) SetActive(actor services.Actor, userID string, active bool) (*models.User, error) {
	args := m.Called(actor, userID, active)
	r, _ := args.Get(0).(*models.User)
	return r, args.Error(1)
}

type MockAppointmentService struct{ mock.Mock }

func (m *MockAppointmentService) Book(ctx context.Context, patientID string, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	return apptArgs(m.Called(patientID, req))
}

func (m *MockAppointmentService) List(actor services.Actor, filter models.AppointmentFilter, upcoming bool) ([]models.Appointment, error) {
	args := m.Called(actor, filter, upcoming)
	r, _ := args.Get(0).([]models.Appointment)
	return r, args.Error(1)
}

func (m *MockAppointmentService) Get(actor services.Actor, id string) (*models.Appointment, error) {
	return apptArgs(m.Called(actor, id))
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, actor services.Actor, id string, req models.UpdateStatusRequest) (*models.Appointment, error) {
	return apptArgs(m.Called(actor, id, req))
}

func (m *MockAppointmentService) Reschedule(ctx context.Context, actor services.Actor, id string, req models.RescheduleRequest) (*models.Appointment, error) {
	return apptArgs(m.Called(actor, id, req))
}

func (m *MockAppointmentService) Dashboard(doctorID string) (*models.DoctorDashboard, error) {
	args := m.Called(doctorID)
	r, _ := args.Get(0).(*models.DoctorDashboard)
	return r, args.Error(1)
}

func apptArgs(args mock.Arguments) (*models.Appointment, error) {
	r, _ := args.Get(0).(*models.Appointment)
	return r, args.Error(1)
}

type MockPrescriptionService struct{ mock.Mock }

func (m *MockPrescriptionService) Create(ctx context.Context, doctorID string, req models.CreatePrescriptionRequest) (*models.Prescription, error) {
	return rxArgs(m.Called(doctorID, req))
}

func (m *MockPrescriptionService) List(actor services.Actor, filter models.PrescriptionFilter) ([]models.Prescription, error) {
	args := m.Called(actor, filter)
	r, _ := args.Get(0).([]models.Prescription)
	return r, args.Error(1)
}

func (m *MockPrescriptionService) Get(actor services.Actor, id string) (*models.Prescription, error) {
	return rxArgs(m.Called(actor, id))
}

func (m *MockPrescriptionService) UpdateStatus(actor services.Actor, id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	return rxArgs(m.Called(actor, id, status))
}

func (m *MockPrescriptionService) PDF(actor services.Actor, id string) ([]byte, string, error) {
	args := m.Called(actor, id)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func rxArgs(args mock.Arguments) (*models.Prescription, error) {
	r, _ := args.Get(0).(*models.Prescription)
	return r, args.Error(1)
}

type MockHealthRecordService struct{ mock.Mock }

func (m *MockHealthRecordService) Create(ctx context.Context, actor services.Actor, req models.CreateHealthRecordRequest) (*models.HealthRecord, error) {
	return recordArgs(m.Called(actor, req))
}

func (m *MockHealthRecordService) List(actor services.Actor, filter models.HealthRecordFilter) ([]models.HealthRecord, error) {
	args := m.Called(actor, filter)
	r, _ := args.Get(0).([]models.HealthRecord)
	return r, args.Error(1)
}

func (m *MockHealthRecordService) Get(actor services.Actor, id string) (*models.HealthRecord, error) {
	return recordArgs(m.Called(actor, id))
}

func (m *MockHealthRecordService) Delete(ctx context.Context, actor services.Actor, id string) error {
	return m.Called(actor, id).Error(0)
}

func (m *MockHealthRecordService) AttachFile(ctx context.Context, actor services.Actor, id, filename, contentType string, size int64, data io.Reader) (*models.HealthRecord, error) {
	body, _ := io.ReadAll(data)
	return recordArgs(m.Called(actor, id, filename, contentType, size, string(body)))
}

func (m *MockHealthRecordService) FileURL(actor services.Actor, id string) (string, error) {
	args := m.Called(actor, id)
	return args.String(0), args.Error(1)
}

func recordArgs(args mock.Arguments) (*models.HealthRecord, error) {
	r, _ := args.Get(0).(*models.HealthRecord)
	return r, args.Error(1)
}

type MockMessageService struct{ mock.Mock }

func (m *MockMessageService) Send(senderID string, req models.SendMessageRequest) (*models.Message, error) {
	args := m.Called(senderID, req)
	r, _ := args.Get(0).(*models.Message)
	return r, args.Error(1)
}

func (m *MockMessageService) Thread(userID, otherID string, after *time.Time, limit int) ([]models.Message, error) {
	args := m.Called(userID, otherID, after, limit)
	r, _ := args.Get(0).([]models.Message)
	return r, args.Error(1)
}

func (m *MockMessageService) Conversations(userID string) ([]models.Conversation, error) {
	args := m.Called(userID)
	r, _ := args.Get(0).([]models.Conversation)
	return r, args.Error(1)
}

func (m *MockMessageService) MarkRead(userID, senderID string) (int, error) {
	args := m.Called(userID, senderID)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageService) UnreadCount(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) CreateOrder(ctx context.Context, patientID, appointmentID string) (*models.OrderResponse, error) {
	args := m.Called(patientID, appointmentID)
	r, _ := args.Get(0).(*models.OrderResponse)
	return r, args.Error(1)
}

func (m *MockPaymentService) Verify(ctx context.Context, patientID string, req models.VerifyPaymentRequest) (*models.Payment, error) {
	args := m.Called(patientID, req)
	r, _ := args.Get(0).(*models.Payment)
	return r, args.Error(1)
}

func (m *MockPaymentService) List(patientID, appointmentID string) ([]models.Payment, error) {
	args := m.Called(patientID, appointmentID)
	r, _ := args.Get(0).([]models.Payment)
	return r, args.Error(1)
}

type MockVideoService struct{ mock.Mock }

func (m *MockVideoService) Token(actor services.Actor, appointmentID string) (*models.VideoToken, error) {
	args := m.Called(actor, appointmentID)
	r, _ := args.Get(0).(*models.VideoToken)
	return r, args.Error(1)
}
