package repository

import (
	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const appointmentsTable = "appointments"

type AppointmentRepository struct {
	db Querier
}

func NewAppointmentRepository(db Querier) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(a *models.Appointment) (*models.Appointment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":                a.ID,
		"patient_id":        a.PatientID,
		"doctor_id":         a.DoctorID,
		"time_slot_id":      a.TimeSlotID,
		"appointment_date":  a.AppointmentDate,
		"start_time":        a.StartTime,
		"end_time":          a.EndTime,
		"status":            a.Status,
		"consultation_type": a.ConsultationType,
		"payment_status":    a.PaymentStatus,
	}
	if a.Reason != nil {
		row["reason"] = *a.Reason
	}

	return first[models.Appointment](r.db.From(appointmentsTable).
		Insert(row, false, "", "representation", ""))
}

func (r *AppointmentRepository) GetByID(id string) (*models.Appointment, error) {
	return first[models.Appointment](r.db.From(appointmentsTable).
		Select("*", "", false).
		Eq("id", id))
}

func (r *AppointmentRepository) List(filter models.AppointmentFilter) ([]models.Appointment, error) {
	query := r.db.From(appointmentsTable).Select("*", "", false)

	if filter.PatientID != "" {
		query = query.Eq("patient_id", filter.PatientID)
	}
	if filter.DoctorID != "" {
		query = query.Eq("doctor_id", filter.DoctorID)
	}
	if filter.Status != "" {
		query = query.Eq("status", string(filter.Status))
	}
	if filter.From != "" {
		query = query.Gte("appointment_date", filter.From)
	}
	if filter.To != "" {
		query = query.Lte("appointment_date", filter.To)
	}

	return fetch[models.Appointment](query.
		Order(orderBy("appointment_date", true)).
		Order(orderBy("start_time", true)))
}

// ListBooked returns the non-cancelled appointments of a doctor on a date.
func (r *AppointmentRepository) ListBooked(doctorID, date string) ([]models.Appointment, error) {
	return fetch[models.Appointment](r.db.From(appointmentsTable).
		Select("*", "", false).
		Eq("doctor_id", doctorID).
		Eq("appointment_date", date).
		Neq("status", string(models.StatusCancelled)))
}

// FindActiveBySlot returns the live booking of a slot on a date, if any.
func (r *AppointmentRepository) FindActiveBySlot(slotID, date string) (*models.Appointment, error) {
	return first[models.Appointment](r.db.From(appointmentsTable).
		Select("*", "", false).
		Eq("time_slot_id", slotID).
		Eq("appointment_date", date).
		Neq("status", string(models.StatusCancelled)).
		Limit(1, ""))
}

// ListFutureBySlot returns live bookings of a slot from fromDate on.
func (r *AppointmentRepository) ListFutureBySlot(slotID, fromDate string) ([]models.Appointment, error) {
	return fetch[models.Appointment](r.db.From(appointmentsTable).
		Select("id", "", false).
		Eq("time_slot_id", slotID).
		Gte("appointment_date", fromDate).
		In("status", []string{string(models.StatusPending), string(models.StatusConfirmed)}))
}

// HasRelationship reports whether the doctor has ever had a non-cancelled
// appointment with the patient.
func (r *AppointmentRepository) HasRelationship(doctorID, patientID string) (bool, error) {
	rows, err := fetch[models.Appointment](r.db.From(appointmentsTable).
		Select("id", "", false).
		Eq("doctor_id", doctorID).
		Eq("patient_id", patientID).
		Neq("status", string(models.StatusCancelled)).
		Limit(1, ""))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// UpdateIfStatus writes fields only while the row still has status current.
// ErrNotFound means the row is gone or its status moved on.
func (r *AppointmentRepository) UpdateIfStatus(id string, current models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error) {
	return first[models.Appointment](r.db.From(appointmentsTable).
		Update(fields, "representation", "").
		Eq("id", id).
		Eq("status", string(current)))
}

func (r *AppointmentRepository) Update(id string, fields map[string]interface{}) (*models.Appointment, error) {
	return first[models.Appointment](r.db.From(appointmentsTable).
		Update(fields, "representation", "").
		Eq("id", id))
}
