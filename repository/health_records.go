package repository

import (
	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const healthRecordsTable = "health_records"

type HealthRecordRepository struct {
	db Querier
}

func NewHealthRecordRepository(db Querier) *HealthRecordRepository {
	return &HealthRecordRepository{db: db}
}

func (r *HealthRecordRepository) Create(rec *models.HealthRecord) (*models.HealthRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":          rec.ID,
		"patient_id":  rec.PatientID,
		"record_type": rec.RecordType,
		"title":       rec.Title,
		"record_date": rec.RecordDate,
	}
	if rec.DoctorID != nil {
		row["doctor_id"] = *rec.DoctorID
	}
	if rec.AppointmentID != nil {
		row["appointment_id"] = *rec.AppointmentID
	}
	if rec.Description != nil {
		row["description"] = *rec.Description
	}

	return first[models.HealthRecord](r.db.From(healthRecordsTable).
		Insert(row, false, "", "representation", ""))
}

func (r *HealthRecordRepository) GetByID(id string) (*models.HealthRecord, error) {
	return first[models.HealthRecord](r.db.From(healthRecordsTable).
		Select("*", "", false).
		Eq("id", id))
}

// List filters by patient and type. authorID restricts to records a doctor wrote.
func (r *HealthRecordRepository) List(filter models.HealthRecordFilter, authorID string) ([]models.HealthRecord, error) {
	query := r.db.From(healthRecordsTable).Select("*", "", false)

	if filter.PatientID != "" {
		query = query.Eq("patient_id", filter.PatientID)
	}
	if authorID != "" {
		query = query.Eq("doctor_id", authorID)
	}
	if filter.RecordType != "" {
		query = query.Eq("record_type", string(filter.RecordType))
	}

	return fetch[models.HealthRecord](query.
		Order(orderBy("record_date", false)).
		Order(orderBy("created_at", false)))
}

func (r *HealthRecordRepository) SetFilePath(id, path string) (*models.HealthRecord, error) {
	return first[models.HealthRecord](r.db.From(healthRecordsTable).
		Update(map[string]interface{}{"file_path": path}, "representation", "").
		Eq("id", id))
}

func (r *HealthRecordRepository) Delete(id string) error {
	_, _, err := r.db.From(healthRecordsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	return err
}
