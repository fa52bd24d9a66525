package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

// Notifier turns domain events into e-mails.
type Notifier struct {
	users         UserStore
	prescriptions PrescriptionStore
	mailer        Mailer
	log           *logger.Logger
}

func NewNotifier(users UserStore, prescriptions PrescriptionStore, mailer Mailer, log *logger.Logger) *Notifier {
	return &Notifier{users: users, prescriptions: prescriptions, mailer: mailer, log: log}
}

// Handle sends the e-mails for one event. Errors wrapping events.ErrDrop must
// not be retried.
func (n *Notifier) Handle(ctx context.Context, evt events.Event) error {
	switch evt.Type {
	case events.AppointmentCreated, events.AppointmentStatusChanged:
		var p events.AppointmentPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", events.ErrDrop, err)
		}
		return n.appointment(evt.Type, p)
	case events.PrescriptionIssued:
		var p events.PrescriptionPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", events.ErrDrop, err)
		}
		return n.prescription(p)
	case events.PaymentCompleted:
		var p events.PaymentPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", events.ErrDrop, err)
		}
		return n.payment(p)
	}

	n.log.WithComponent("notifier").WithField("event", evt.Type).Debug("ignoring event")
	return nil
}

func (n *Notifier) people(ids ...string) (map[string]models.User, error) {
	users, err := n.users.GetMany(ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: user %s not found", events.ErrDrop, id)
		}
	}
	return byID, nil
}

func (n *Notifier) appointment(eventType string, p events.AppointmentPayload) error {
	people, err := n.people(p.PatientID, p.DoctorID)
	if err != nil {
		return err
	}
	patient, doctor := people[p.PatientID], people[p.DoctorID]
	when := fmt.Sprintf("%s at %s", p.AppointmentDate, p.StartTime)
	kind := strings.ReplaceAll(p.ConsultationType, "_", " ")

	if eventType == events.AppointmentCreated {
		if err := n.mailer.Send(doctor.Email, "New appointment request",
			fmt.Sprintf("Hello Dr. %s,\n\n%s requested a %s consultation on %s.\nPlease confirm or decline it from your dashboard.\n",
				doctor.FullName, patient.FullName, kind, when)); err != nil {
			return err
		}
		return n.mailer.Send(patient.Email, "Appointment requested",
			fmt.Sprintf("Hello %s,\n\nYour %s consultation with Dr. %s on %s is waiting for confirmation.\n",
				patient.FullName, kind, doctor.FullName, when))
	}

	body := fmt.Sprintf("Hello %s,\n\nYour appointment with Dr. %s on %s is now %s.\n",
		patient.FullName, doctor.FullName, when, strings.ReplaceAll(p.Status, "_", " "))
	if p.Reason != "" {
		body += fmt.Sprintf("Reason: %s\n", p.Reason)
	}
	if err := n.mailer.Send(patient.Email, "Appointment update", body); err != nil {
		return err
	}

	if p.Status == string(models.StatusCancelled) {
		return n.mailer.Send(doctor.Email, "Appointment cancelled",
			fmt.Sprintf("Hello Dr. %s,\n\nThe appointment with %s on %s was cancelled.\n", doctor.FullName, patient.FullName, when))
	}
	return nil
}

func (n *Notifier) prescription(p events.PrescriptionPayload) error {
	rx, err := n.prescriptions.GetByID(p.PrescriptionID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: prescription %s not found", events.ErrDrop, p.PrescriptionID)
		}
		return fmt.Errorf("get prescription: %w", err)
	}

	people, err := n.people(rx.PatientID, rx.DoctorID)
	if err != nil {
		return err
	}
	patient, doctor := people[rx.PatientID], people[rx.DoctorID]

	pdf, err := RenderPrescriptionPDF(rx, &patient, &doctor)
	if err != nil {
		return err
	}

	return n.mailer.Send(patient.Email, "Your prescription",
		fmt.Sprintf("Hello %s,\n\nDr. %s issued a prescription for you. It is attached to this e-mail.\n", patient.FullName, doctor.FullName),
		Attachment{Name: PrescriptionFileName(rx), Data: pdf})
}

func (n *Notifier) payment(p events.PaymentPayload) error {
	people, err := n.people(p.PatientID)
	if err != nil {
		return err
	}
	patient := people[p.PatientID]

	return n.mailer.Send(patient.Email, "Payment received",
		fmt.Sprintf("Hello %s,\n\nWe received your payment of %s %s for appointment %s.\n",
			patient.FullName, FormatAmount(p.Amount), p.Currency, p.AppointmentID))
}

// FormatAmount renders minor units with two decimals.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
