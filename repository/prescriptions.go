package repository

import (
	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const prescriptionsTable = "prescriptions"

type PrescriptionRepository struct {
	db Querier
}

func NewPrescriptionRepository(db Querier) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func (r *PrescriptionRepository) Create(p *models.Prescription) (*models.Prescription, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":             p.ID,
		"appointment_id": p.AppointmentID,
		"patient_id":     p.PatientID,
		"doctor_id":      p.DoctorID,
		"diagnosis":      p.Diagnosis,
		"medications":    p.Medications,
		"status":         p.Status,
	}
	if p.Notes != nil {
		row["notes"] = *p.Notes
	}
	if p.ValidUntil != nil {
		row["valid_until"] = *p.ValidUntil
	}

	return first[models.Prescription](r.db.From(prescriptionsTable).
		Insert(row, false, "", "representation", ""))
}

func (r *PrescriptionRepository) GetByID(id string) (*models.Prescription, error) {
	return first[models.Prescription](r.db.From(prescriptionsTable).
		Select("*", "", false).
		Eq("id", id))
}

func (r *PrescriptionRepository) List(filter models.PrescriptionFilter) ([]models.Prescription, error) {
	query := r.db.From(prescriptionsTable).Select("*", "", false)

	if filter.PatientID != "" {
		query = query.Eq("patient_id", filter.PatientID)
	}
	if filter.DoctorID != "" {
		query = query.Eq("doctor_id", filter.DoctorID)
	}
	if filter.Status != "" {
		query = query.Eq("status", string(filter.Status))
	}

	return fetch[models.Prescription](query.Order(orderBy("created_at", false)))
}

func (r *PrescriptionRepository) SetStatus(id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	return first[models.Prescription](r.db.From(prescriptionsTable).
		Update(map[string]interface{}{"status": status}, "representation", "").
		Eq("id", id))
}
