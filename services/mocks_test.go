package services

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/repository"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // a Monday

func clock() time.Time { return fixedNow }

func testConfig() *config.Config {
	cfg := &config.Config{Location: time.UTC}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 720 * time.Hour
	cfg.Auth.OTPTTL = 5 * time.Minute
	cfg.Auth.OTPMaxAttempts = 3
	cfg.Supabase.AvatarBucket = "avatars"
	cfg.Supabase.HealthRecordBucket = "health-records"
	cfg.Supabase.SignedURLTTLSeconds = 600
	cfg.Twilio.VideoTokenTTL = time.Hour
	cfg.Razorpay.Currency = "INR"
	return cfg
}

var errNotFound = repository.ErrNotFound

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	return userArg(args)
}

func (m *MockUserStore) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	return userArg(args)
}

func (m *MockUserStore) GetActiveByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	return userArg(args)
}

func (m *MockUserStore) GetMany(ids []string) ([]models.User, error) {
	args := m.Called(ids)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserStore) List(filter models.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserStore) Create(user *models.User) (*models.User, error) {
	args := m.Called(user)
	return userArg(args)
}

func (m *MockUserStore) Update(id string, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(id, fields)
	return userArg(args)
}

func userArg(args mock.Arguments) (*models.User, error) {
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type MockDoctorStore struct{ mock.Mock }

func (m *MockDoctorStore) List(filter models.DoctorFilter) ([]models.Doctor, error) {
	args := m.Called(filter)
	d, _ := args.Get(0).([]models.Doctor)
	return d, args.Error(1)
}

func (m *MockDoctorStore) GetByID(id string) (*models.Doctor, error) {
	args := m.Called(id)
	d, _ := args.Get(0).(*models.Doctor)
	return d, args.Error(1)
}

func (m *MockDoctorStore) GetProfile(id string) (*models.DoctorProfile, error) {
	args := m.Called(id)
	d, _ := args.Get(0).(*models.DoctorProfile)
	return d, args.Error(1)
}

func (m *MockDoctorStore) CreateProfile(id string) (*models.DoctorProfile, error) {
	args := m.Called(id)
	d, _ := args.Get(0).(*models.DoctorProfile)
	return d, args.Error(1)
}

func (m *MockDoctorStore) UpdateProfile(id string, fields map[string]interface{}) (*models.DoctorProfile, error) {
	args := m.Called(id, fields)
	d, _ := args.Get(0).(*models.DoctorProfile)
	return d, args.Error(1)
}

type MockRefreshTokenStore struct{ mock.Mock }

func (m *MockRefreshTokenStore) Create(userID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error) {
	args := m.Called(userID, tokenHash, expiresAt)
	t, _ := args.Get(0).(*models.RefreshToken)
	return t, args.Error(1)
}

func (m *MockRefreshTokenStore) GetByHash(tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(tokenHash)
	t, _ := args.Get(0).(*models.RefreshToken)
	return t, args.Error(1)
}

func (m *MockRefreshTokenStore) Revoke(id, replacedBy string) error {
	return m.Called(id, replacedBy).Error(0)
}

func (m *MockRefreshTokenStore) RevokeAll(userID string) error {
	return m.Called(userID).Error(0)
}

type MockOTPStore struct{ mock.Mock }

func (m *MockOTPStore) Create(id, phone string, expiresAt time.Time) (*models.OTP, error) {
	args := m.Called(id, phone, expiresAt)
	o, _ := args.Get(0).(*models.OTP)
	return o, args.Error(1)
}

func (m *MockOTPStore) Latest(phone string) (*models.OTP, error) {
	args := m.Called(phone)
	o, _ := args.Get(0).(*models.OTP)
	return o, args.Error(1)
}

func (m *MockOTPStore) MarkUsed(id string) error { return m.Called(id).Error(0) }

func (m *MockOTPStore) SetAttempts(id string, previous, attempts int) error {
	return m.Called(id, previous, attempts).Error(0)
}

func (m *MockOTPStore) InvalidatePending(phone string) error { return m.Called(phone).Error(0) }

type MockSMSClient struct{ mock.Mock }

func (m *MockSMSClient) SendOTP(phone string) (string, error) {
	args := m.Called(phone)
	return args.String(0), args.Error(1)
}

func (m *MockSMSClient) ValidateOTP(token, code string) error {
	return m.Called(token, code).Error(0)
}

type MockTimeSlotStore struct{ mock.Mock }

func (m *MockTimeSlotStore) CreateMany(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	args := m.Called(slots)
	s, _ := args.Get(0).([]models.TimeSlot)
	return s, args.Error(1)
}

func (m *MockTimeSlotStore) List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error) {
	args := m.Called(doctorID, dayOfWeek)
	s, _ := args.Get(0).([]models.TimeSlot)
	return s, args.Error(1)
}

func (m *MockTimeSlotStore) GetByID(id string) (*models.TimeSlot, error) {
	args := m.Called(id)
	s, _ := args.Get(0).(*models.TimeSlot)
	return s, args.Error(1)
}

func (m *MockTimeSlotStore) SetAvailable(id string, available bool) (*models.TimeSlot, error) {
	args := m.Called(id, available)
	s, _ := args.Get(0).(*models.TimeSlot)
	return s, args.Error(1)
}

func (m *MockTimeSlotStore) Delete(id string) error { return m.Called(id).Error(0) }

type MockAppointmentStore struct{ mock.Mock }

func (m *MockAppointmentStore) Create(a *models.Appointment) (*models.Appointment, error) {
	args := m.Called(a)
	return apptArg(args)
}

func (m *MockAppointmentStore) GetByID(id string) (*models.Appointment, error) {
	args := m.Called(id)
	return apptArg(args)
}

func (m *MockAppointmentStore) List(filter models.AppointmentFilter) ([]models.Appointment, error) {
	args := m.Called(filter)
	return apptsArg(args)
}

func (m *MockAppointmentStore) ListBooked(doctorID, date string) ([]models.Appointment, error) {
	args := m.Called(doctorID, date)
	return apptsArg(args)
}

func (m *MockAppointmentStore) FindActiveBySlot(slotID, date string) (*models.Appointment, error) {
	args := m.Called(slotID, date)
	return apptArg(args)
}

func (m *MockAppointmentStore) ListFutureBySlot(slotID, fromDate string) ([]models.Appointment, error) {
	args := m.Called(slotID, fromDate)
	return apptsArg(args)
}

func (m *MockAppointmentStore) HasRelationship(doctorID, patientID string) (bool, error) {
	args := m.Called(doctorID, patientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentStore) UpdateIfStatus(id string, current models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error) {
	args := m.Called(id, current, fields)
	return apptArg(args)
}

func (m *MockAppointmentStore) Update(id string, fields map[string]interface{}) (*models.Appointment, error) {
	args := m.Called(id, fields)
	return apptArg(args)
}

func apptArg(args mock.Arguments) (*models.Appointment, error) {
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func apptsArg(args mock.Arguments) ([]models.Appointment, error) {
	a, _ := args.Get(0).([]models.Appointment)
	return a, args.Error(1)
}

type MockPrescriptionStore struct{ mock.Mock }

func (m *MockPrescriptionStore) Create(p *models.Prescription) (*models.Prescription, error) {
	args := m.Called(p)
	r, _ := args.Get(0).(*models.Prescription)
	return r, args.Error(1)
}

func (m *MockPrescriptionStore) GetByID(id string) (*models.Prescription, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(*models.Prescription)
	return r, args.Error(1)
}

func (m *MockPrescriptionStore) List(filter models.PrescriptionFilter) ([]models.Prescription, error) {
	args := m.Called(filter)
	r, _ := args.Get(0).([]models.Prescription)
	return r, args.Error(1)
}

func (m *MockPrescriptionStore) SetStatus(id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	args := m.Called(id, status)
	r, _ := args.Get(0).(*models.Prescription)
	return r, args.Error(1)
}

type MockHealthRecordStore struct{ mock.Mock }

func (m *MockHealthRecordStore) Create(rec *models.HealthRecord) (*models.HealthRecord, error) {
	args := m.Called(rec)
	r, _ := args.Get(0).(*models.HealthRecord)
	return r, args.Error(1)
}

func (m *MockHealthRecordStore) GetByID(id string) (*models.HealthRecord, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(*models.HealthRecord)
	return r, args.Error(1)
}

func (m *MockHealthRecordStore) List(filter models.HealthRecordFilter, authorID string) ([]models.HealthRecord, error) {
	args := m.Called(filter, authorID)
	r, _ := args.Get(0).([]models.HealthRecord)
	return r, args.Error(1)
}

func (m *MockHealthRecordStore) SetFilePath(id, path string) (*models.HealthRecord, error) {
	args := m.Called(id, path)
	r, _ := args.Get(0).(*models.HealthRecord)
	return r, args.Error(1)
}

func (m *MockHealthRecordStore) Delete(id string) error { return m.Called(id).Error(0) }

type MockMessageStore struct{ mock.Mock }

func (m *MockMessageStore) Create(msg *models.Message) (*models.Message, error) {
	args := m.Called(msg)
	r, _ := args.Get(0).(*models.Message)
	return r, args.Error(1)
}

func (m *MockMessageStore) Thread(a, b string, after *time.Time, limit int) ([]models.Message, error) {
	args := m.Called(a, b, after, limit)
	r, _ := args.Get(0).([]models.Message)
	return r, args.Error(1)
}

func (m *MockMessageStore) Recent(userID string, limit int) ([]models.Message, error) {
	args := m.Called(userID, limit)
	r, _ := args.Get(0).([]models.Message)
	return r, args.Error(1)
}

func (m *MockMessageStore) MarkRead(senderID, receiverID string) ([]models.Message, error) {
	args := m.Called(senderID, receiverID)
	r, _ := args.Get(0).([]models.Message)
	return r, args.Error(1)
}

func (m *MockMessageStore) CountUnread(receiverID string) (int, error) {
	args := m.Called(receiverID)
	return args.Int(0), args.Error(1)
}

type MockPaymentStore struct{ mock.Mock }

func (m *MockPaymentStore) Create(p *models.Payment) (*models.Payment, error) {
	args := m.Called(p)
	r, _ := args.Get(0).(*models.Payment)
	return r, args.Error(1)
}

func (m *MockPaymentStore) GetByOrderID(orderID string) (*models.Payment, error) {
	args := m.Called(orderID)
	r, _ := args.Get(0).(*models.Payment)
	return r, args.Error(1)
}

func (m *MockPaymentStore) List(patientID, appointmentID string) ([]models.Payment, error) {
	args := m.Called(patientID, appointmentID)
	r, _ := args.Get(0).([]models.Payment)
	return r, args.Error(1)
}

func (m *MockPaymentStore) ListForAppointment(appointmentID string, status models.PaymentState) ([]models.Payment, error) {
	args := m.Called(appointmentID, status)
	r, _ := args.Get(0).([]models.Payment)
	return r, args.Error(1)
}

func (m *MockPaymentStore) Update(id string, fields map[string]interface{}) (*models.Payment, error) {
	args := m.Called(id, fields)
	r, _ := args.Get(0).(*models.Payment)
	return r, args.Error(1)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Upload(bucket, path string, data io.Reader, contentType string) error {
	return m.Called(bucket, path, mock.Anything, contentType).Error(0)
}

func (m *MockFileStorage) SignedURL(bucket, path string, expiresInSeconds int) (string, error) {
	args := m.Called(bucket, path, expiresInSeconds)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) PublicURL(bucket, path string) string {
	return m.Called(bucket, path).String(0)
}

func (m *MockFileStorage) Remove(bucket, path string) error {
	return m.Called(bucket, path).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, int64, bool) {
	args := m.Called(doctorID, date)
	s, _ := args.Get(0).([]models.AvailableSlot)
	return s, args.Get(1).(int64), args.Bool(2)
}

func (m *MockCache) Set(ctx context.Context, doctorID, date string, version int64, slots []models.AvailableSlot) {
	m.Called(doctorID, date, version, slots)
}

func (m *MockCache) Invalidate(ctx context.Context, doctorID string) {
	m.Called(doctorID)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateOrder(amount int64, currency, receipt string) (string, error) {
	args := m.Called(amount, currency, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return m.Called(orderID, paymentID, signature).Bool(0)
}

func (m *MockGateway) KeyID() string { return "rzp_test_key" }

type MockVideoIssuer struct{ mock.Mock }

func (m *MockVideoIssuer) Issue(identity, room string, ttl time.Duration) (string, error) {
	args := m.Called(identity, room, ttl)
	return args.String(0), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(to, subject, body string, attachments ...Attachment) error {
	return m.Called(to, subject, body, attachments).Error(0)
}
