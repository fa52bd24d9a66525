package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

// transitions lists, per current status, the statuses it may move to and the
// participant roles allowed to make that move. Admins may make any of them.
var transitions = map[models.AppointmentStatus]map[models.AppointmentStatus][]models.Role{
	models.StatusPending: {
		models.StatusConfirmed: {models.RoleDoctor},
		models.StatusCancelled: {models.RolePatient, models.RoleDoctor},
	},
	models.StatusConfirmed: {
		models.StatusCompleted: {models.RoleDoctor},
		models.StatusNoShow:    {models.RoleDoctor},
		models.StatusCancelled: {models.RolePatient, models.RoleDoctor},
	},
}

// CheckTransition validates a status change by a caller with the given role.
func CheckTransition(from, to models.AppointmentStatus, role models.Role) error {
	allowed, ok := transitions[from][to]
	if !ok {
		return fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalid, from, to)
	}
	if role == models.RoleAdmin {
		return nil
	}
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot change status to %s", ErrForbidden, role, to)
}

func IsTerminal(status models.AppointmentStatus) bool {
	_, ok := transitions[status]
	return !ok
}

// EventPublisher is implemented by the events package.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type AppointmentService struct {
	appointments AppointmentStore
	slots        TimeSlotStore
	doctors      DoctorStore
	cache        AvailabilityCache
	publisher    EventPublisher
	loc          *time.Location
	log          *logger.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments AppointmentStore,
	slots TimeSlotStore,
	doctors DoctorStore,
	cache AvailabilityCache,
	publisher EventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) *AppointmentService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{
		appointments: appointments,
		slots:        slots,
		doctors:      doctors,
		cache:        cache,
		publisher:    publisher,
		loc:          loc,
		log:          log,
		now:          time.Now,
	}
}

func (s *AppointmentService) Book(ctx context.Context, patientID string, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	doctor, err := s.doctors.GetByID(req.DoctorID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("doctor %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if !doctor.IsAvailable {
		return nil, fmt.Errorf("%w: doctor is not accepting appointments", ErrConflict)
	}

	slot, err := s.bookableSlot(req.DoctorID, req.TimeSlotID, req.AppointmentDate, "")
	if err != nil {
		return nil, err
	}

	appt, err := s.appointments.Create(&models.Appointment{
		PatientID:        patientID,
		DoctorID:         req.DoctorID,
		TimeSlotID:       slot.ID,
		AppointmentDate:  req.AppointmentDate,
		StartTime:        slot.StartTime,
		EndTime:          slot.EndTime,
		Status:           models.StatusPending,
		ConsultationType: req.ConsultationType,
		Reason:           req.Reason,
		PaymentStatus:    models.PaymentUnpaid,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: time slot already booked", ErrConflict)
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.cache.Invalidate(ctx, appt.DoctorID)
	s.publish(ctx, events.AppointmentCreated, appt, "", "")
	s.log.Audit(patientID, "book", "appointment", true, map[string]interface{}{"appointment_id": appt.ID})
	return appt, nil
}

// bookableSlot checks that slotID belongs to doctorID, is open, falls on the
// date's weekday, lies in the future and is not held by another appointment
// than exceptID.
func (s *AppointmentService) bookableSlot(doctorID, slotID, date, exceptID string) (*models.TimeSlot, error) {
	slot, err := s.slots.GetByID(slotID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("time slot %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.DoctorID != doctorID {
		return nil, fmt.Errorf("%w: time slot does not belong to this doctor", ErrInvalid)
	}
	if !slot.IsAvailable {
		return nil, fmt.Errorf("%w: time slot is not available", ErrConflict)
	}

	start, err := at(date, slot.StartTime, s.loc)
	if err != nil {
		return nil, err
	}
	if int(start.Weekday()) != slot.DayOfWeek {
		return nil, fmt.Errorf("%w: time slot is not offered on %s", ErrInvalid, start.Weekday())
	}
	if !start.After(s.now()) {
		return nil, fmt.Errorf("%w: cannot book a time in the past", ErrInvalid)
	}

	existing, err := s.appointments.FindActiveBySlot(slotID, date)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("check slot booking: %w", err)
	}
	if existing != nil && existing.ID != exceptID {
		return nil, fmt.Errorf("%w: time slot already booked", ErrConflict)
	}
	return slot, nil
}

func (s *AppointmentService) List(actor Actor, filter models.AppointmentFilter, upcoming bool) ([]models.Appointment, error) {
	switch actor.Role {
	case models.RolePatient:
		filter.PatientID = actor.UserID
	case models.RoleDoctor:
		filter.DoctorID = actor.UserID
	}

	today := s.now().In(s.loc).Format(dateLayout)
	if upcoming && (filter.From == "" || filter.From < today) {
		filter.From = today
	}

	list, err := s.appointments.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	if !upcoming {
		return list, nil
	}
	out := make([]models.Appointment, 0, len(list))
	for _, a := range list {
		if !IsTerminal(a.Status) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Get returns the appointment if actor takes part in it. Others get
// ErrNotFound so the id does not leak.
func (s *AppointmentService) Get(actor Actor, id string) (*models.Appointment, error) {
	appt, err := s.appointments.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("appointment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if !actor.IsAdmin() && appt.PatientID != actor.UserID && appt.DoctorID != actor.UserID {
		return nil, fmt.Errorf("appointment %w", ErrNotFound)
	}
	return appt, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, actor Actor, id string, req models.UpdateStatusRequest) (*models.Appointment, error) {
	appt, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	role := actor.Role
	if !actor.IsAdmin() {
		role = models.RoleDoctor
		if appt.PatientID == actor.UserID {
			role = models.RolePatient
		}
	}
	if err := CheckTransition(appt.Status, req.Status, role); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":     req.Status,
		"updated_at": s.now().UTC(),
	}
	if req.Status == models.StatusCancelled && req.Reason != nil {
		fields["cancellation_reason"] = *req.Reason
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	updated, err := s.appointments.UpdateIfStatus(id, appt.Status, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: appointment was changed by someone else, reload and retry", ErrConflict)
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	s.cache.Invalidate(ctx, updated.DoctorID)
	s.publish(ctx, events.AppointmentStatusChanged, updated, appt.Status, reason)
	s.log.Audit(actor.UserID, "status_"+string(req.Status), "appointment", true, map[string]interface{}{
		"appointment_id": id,
		"from":           appt.Status,
	})
	return updated, nil
}

func (s *AppointmentService) Reschedule(ctx context.Context, actor Actor, id string, req models.RescheduleRequest) (*models.Appointment, error) {
	appt, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != actor.UserID {
		return nil, fmt.Errorf("%w: only the patient can reschedule", ErrForbidden)
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalid, appt.Status)
	}

	slot, err := s.bookableSlot(appt.DoctorID, req.TimeSlotID, req.AppointmentDate, appt.ID)
	if err != nil {
		return nil, err
	}

	updated, err := s.appointments.UpdateIfStatus(id, appt.Status, map[string]interface{}{
		"time_slot_id":     slot.ID,
		"appointment_date": req.AppointmentDate,
		"start_time":       slot.StartTime,
		"end_time":         slot.EndTime,
		"status":           models.StatusPending,
		"updated_at":       s.now().UTC(),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: appointment was changed by someone else, reload and retry", ErrConflict)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: time slot already booked", ErrConflict)
		}
		return nil, fmt.Errorf("reschedule appointment: %w", err)
	}

	s.cache.Invalidate(ctx, updated.DoctorID)
	s.publish(ctx, events.AppointmentStatusChanged, updated, appt.Status, "rescheduled")
	return updated, nil
}

func (s *AppointmentService) Dashboard(doctorID string) (*models.DoctorDashboard, error) {
	all, err := s.appointments.List(models.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	today := s.now().In(s.loc).Format(dateLayout)
	dash := &models.DoctorDashboard{
		Today:  []models.Appointment{},
		Counts: map[models.AppointmentStatus]int{},
	}
	for _, a := range all {
		dash.Counts[a.Status]++
		if a.AppointmentDate == today {
			dash.Today = append(dash.Today, a)
		}
		if a.AppointmentDate > today && !IsTerminal(a.Status) {
			dash.Upcoming++
		}
	}
	return dash, nil
}

func (s *AppointmentService) publish(ctx context.Context, eventType string, a *models.Appointment, previous models.AppointmentStatus, reason string) {
	err := s.publisher.Publish(ctx, eventType, events.AppointmentPayload{
		AppointmentID:    a.ID,
		PatientID:        a.PatientID,
		DoctorID:         a.DoctorID,
		AppointmentDate:  a.AppointmentDate,
		StartTime:        a.StartTime,
		ConsultationType: string(a.ConsultationType),
		Status:           string(a.Status),
		PreviousStatus:   string(previous),
		Reason:           reason,
	})
	if err != nil {
		s.log.WithComponent("appointments").WithError(err).WithField("event", eventType).Warn("failed to publish event")
	}
}
