package services

import (
	"context"
	"fmt"

	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

type PrescriptionService struct {
	prescriptions PrescriptionStore
	appointments  AppointmentStore
	users         UserStore
	publisher     EventPublisher
	log           *logger.Logger
}

func NewPrescriptionService(prescriptions PrescriptionStore, appointments AppointmentStore, users UserStore, publisher EventPublisher, log *logger.Logger) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		appointments:  appointments,
		users:         users,
		publisher:     publisher,
		log:           log,
	}
}

func (s *PrescriptionService) Create(ctx context.Context, doctorID string, req models.CreatePrescriptionRequest) (*models.Prescription, error) {
	appt, err := s.appointments.GetByID(req.AppointmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("appointment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt.DoctorID != doctorID {
		return nil, fmt.Errorf("appointment %w", ErrNotFound)
	}
	if appt.Status != models.StatusConfirmed && appt.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: prescriptions need a confirmed or completed appointment", ErrInvalid)
	}

	p, err := s.prescriptions.Create(&models.Prescription{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      doctorID,
		Diagnosis:     req.Diagnosis,
		Medications:   req.Medications,
		Notes:         req.Notes,
		Status:        models.PrescriptionActive,
		ValidUntil:    req.ValidUntil,
	})
	if err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	err = s.publisher.Publish(ctx, events.PrescriptionIssued, events.PrescriptionPayload{
		PrescriptionID: p.ID,
		AppointmentID:  p.AppointmentID,
		PatientID:      p.PatientID,
		DoctorID:       p.DoctorID,
	})
	if err != nil {
		s.log.WithComponent("prescriptions").WithError(err).Warn("failed to publish event")
	}

	s.log.Audit(doctorID, "create", "prescription", true, map[string]interface{}{"prescription_id": p.ID})
	return p, nil
}

func (s *PrescriptionService) List(actor Actor, filter models.PrescriptionFilter) ([]models.Prescription, error) {
	switch actor.Role {
	case models.RolePatient:
		filter.PatientID = actor.UserID
	case models.RoleDoctor:
		filter.DoctorID = actor.UserID
	}
	return s.prescriptions.List(filter)
}

func (s *PrescriptionService) Get(actor Actor, id string) (*models.Prescription, error) {
	p, err := s.prescriptions.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("prescription %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get prescription: %w", err)
	}
	if !actor.IsAdmin() && p.PatientID != actor.UserID && p.DoctorID != actor.UserID {
		return nil, fmt.Errorf("prescription %w", ErrNotFound)
	}
	s.log.Audit(actor.UserID, "read", "prescription", true, map[string]interface{}{"prescription_id": id})
	return p, nil
}

func (s *PrescriptionService) UpdateStatus(actor Actor, id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	p, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if p.DoctorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the prescribing doctor can change this prescription", ErrForbidden)
	}
	if p.Status == status {
		return p, nil
	}
	if p.Status != models.PrescriptionActive {
		return nil, fmt.Errorf("%w: prescription is already %s", ErrInvalid, p.Status)
	}

	updated, err := s.prescriptions.SetStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("update prescription: %w", err)
	}
	return updated, nil
}

// PDF renders the prescription for its patient or author.
func (s *PrescriptionService) PDF(actor Actor, id string) ([]byte, string, error) {
	p, err := s.Get(actor, id)
	if err != nil {
		return nil, "", err
	}

	people, err := s.users.GetMany([]string{p.PatientID, p.DoctorID})
	if err != nil {
		return nil, "", fmt.Errorf("load participants: %w", err)
	}
	var patient, doctor models.User
	for _, u := range people {
		switch u.ID {
		case p.PatientID:
			patient = u
		case p.DoctorID:
			doctor = u
		}
	}

	data, err := RenderPrescriptionPDF(p, &patient, &doctor)
	if err != nil {
		return nil, "", err
	}
	return data, PrescriptionFileName(p), nil
}

func PrescriptionFileName(p *models.Prescription) string {
	return fmt.Sprintf("prescription-%s.pdf", p.ID)
}
