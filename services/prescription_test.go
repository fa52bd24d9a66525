package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

type rxFixture struct {
	prescriptions *MockPrescriptionStore
	appts         *MockAppointmentStore
	users         *MockUserStore
	publisher     *MockPublisher
	svc           *PrescriptionService
}

func newRxFixture() *rxFixture {
	f := &rxFixture{
		prescriptions: new(MockPrescriptionStore),
		appts:         new(MockAppointmentStore),
		users:         new(MockUserStore),
		publisher:     new(MockPublisher),
	}
	f.svc = NewPrescriptionService(f.prescriptions, f.appts, f.users, f.publisher, logger.Discard())
	return f
}

func rxRequest() models.CreatePrescriptionRequest {
	return models.CreatePrescriptionRequest{
		AppointmentID: "a-1",
		Diagnosis:     "Seasonal allergy",
		Medications: []models.Medication{
			{Name: "Cetirizine", Dosage: "10mg", Frequency: "once daily", Duration: "7 days"},
		},
	}
}

func TestCreatePrescription(t *testing.T) {
	f := newRxFixture()
	f.appts.On("GetByID", "a-1").Return(&models.Appointment{ID: "a-1", PatientID: "p-1", DoctorID: "d-1", Status: models.StatusCompleted}, nil)
	f.prescriptions.On("Create", mock.MatchedBy(func(p *models.Prescription) bool {
		return p.PatientID == "p-1" && p.DoctorID == "d-1" && p.Status == models.PrescriptionActive && len(p.Medications) == 1
	})).Return(&models.Prescription{ID: "rx-1", AppointmentID: "a-1", PatientID: "p-1", DoctorID: "d-1"}, nil)
	f.publisher.On("Publish", events.PrescriptionIssued, events.PrescriptionPayload{
		PrescriptionID: "rx-1", AppointmentID: "a-1", PatientID: "p-1", DoctorID: "d-1",
	}).Return(nil)

	p, err := f.svc.Create(context.Background(), "d-1", rxRequest())
	require.NoError(t, err)
	assert.Equal(t, "rx-1", p.ID)
	f.publisher.AssertExpectations(t)
}

func TestCreatePrescription_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		appt    *models.Appointment
		wantErr error
	}{
		{"someone else's appointment", &models.Appointment{ID: "a-1", DoctorID: "d-2", Status: models.StatusCompleted}, ErrNotFound},
		{"pending appointment", &models.Appointment{ID: "a-1", DoctorID: "d-1", Status: models.StatusPending}, ErrInvalid},
		{"cancelled appointment", &models.Appointment{ID: "a-1", DoctorID: "d-1", Status: models.StatusCancelled}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRxFixture()
			f.appts.On("GetByID", "a-1").Return(tt.appt, nil)

			_, err := f.svc.Create(context.Background(), "d-1", rxRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			f.prescriptions.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestPrescriptionAccess(t *testing.T) {
	f := newRxFixture()
	f.prescriptions.On("GetByID", "rx-1").Return(&models.Prescription{ID: "rx-1", PatientID: "p-1", DoctorID: "d-1", Status: models.PrescriptionActive}, nil)

	_, err := f.svc.Get(Actor{UserID: "p-2", Role: models.RolePatient}, "rx-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UpdateStatus(Actor{UserID: "p-1", Role: models.RolePatient}, "rx-1", models.PrescriptionCompleted)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPrescriptionUpdateStatus(t *testing.T) {
	f := newRxFixture()
	f.prescriptions.On("GetByID", "rx-1").Return(&models.Prescription{ID: "rx-1", DoctorID: "d-1", Status: models.PrescriptionActive}, nil)
	f.prescriptions.On("GetByID", "rx-2").Return(&models.Prescription{ID: "rx-2", DoctorID: "d-1", Status: models.PrescriptionCancelled}, nil)
	f.prescriptions.On("SetStatus", "rx-1", models.PrescriptionCompleted).
		Return(&models.Prescription{ID: "rx-1", Status: models.PrescriptionCompleted}, nil)

	doctor := Actor{UserID: "d-1", Role: models.RoleDoctor}
	p, err := f.svc.UpdateStatus(doctor, "rx-1", models.PrescriptionCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionCompleted, p.Status)

	_, err = f.svc.UpdateStatus(doctor, "rx-2", models.PrescriptionActive)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPrescriptionList_ScopedToPatient(t *testing.T) {
	f := newRxFixture()
	f.prescriptions.On("List", models.PrescriptionFilter{PatientID: "p-1", Status: models.PrescriptionActive}).
		Return([]models.Prescription{{ID: "rx-1"}}, nil)

	list, err := f.svc.List(Actor{UserID: "p-1", Role: models.RolePatient}, models.PrescriptionFilter{PatientID: "p-9", Status: models.PrescriptionActive})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPrescriptionPDF(t *testing.T) {
	f := newRxFixture()
	notes := "Avoid dust"
	f.prescriptions.On("GetByID", "rx-1").Return(&models.Prescription{
		ID:          "rx-1",
		PatientID:   "p-1",
		DoctorID:    "d-1",
		Diagnosis:   "Seasonal allergy",
		Medications: rxRequest().Medications,
		Notes:       &notes,
		Status:      models.PrescriptionActive,
		CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}, nil)
	f.users.On("GetMany", []string{"p-1", "d-1"}).Return([]models.User{
		{ID: "p-1", FullName: "Amélie Durand"},
		{ID: "d-1", FullName: "Karim Haddad"},
	}, nil)

	data, name, err := f.svc.PDF(Actor{UserID: "p-1", Role: models.RolePatient}, "rx-1")
	require.NoError(t, err)
	assert.Equal(t, "prescription-rx-1.pdf", name)
	assert.True(t, len(data) > 100)
	assert.Equal(t, "%PDF", string(data[:4]))
}
