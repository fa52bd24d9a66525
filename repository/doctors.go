package repository

import (
	"fmt"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const (
	doctorsTable    = "doctors"
	doctorDirectory = "doctor_directory"
)

type DoctorRepository struct {
	db Querier
}

func NewDoctorRepository(db Querier) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// List reads active doctors from the doctor_directory view.
func (r *DoctorRepository) List(filter models.DoctorFilter) ([]models.Doctor, error) {
	query := r.db.From(doctorDirectory).
		Select("*", "", false).
		Eq("is_active", "true")

	if filter.Specialty != "" {
		query = query.Eq("specialty", filter.Specialty)
	}
	if filter.Search != "" {
		query = query.Ilike("full_name", fmt.Sprintf("*%s*", filter.Search))
	}
	if filter.AvailableOnly {
		query = query.Eq("is_available", "true")
	}

	return fetch[models.Doctor](query.Order(orderBy("full_name", true)))
}

func (r *DoctorRepository) GetByID(id string) (*models.Doctor, error) {
	return first[models.Doctor](r.db.From(doctorDirectory).
		Select("*", "", false).
		Eq("id", id).
		Eq("is_active", "true"))
}

func (r *DoctorRepository) GetProfile(id string) (*models.DoctorProfile, error) {
	return first[models.DoctorProfile](r.db.From(doctorsTable).
		Select("*", "", false).
		Eq("id", id))
}

func (r *DoctorRepository) CreateProfile(id string) (*models.DoctorProfile, error) {
	row := map[string]interface{}{
		"id":           id,
		"specialty":    "",
		"is_available": true,
	}
	return first[models.DoctorProfile](r.db.From(doctorsTable).
		Insert(row, false, "", "representation", ""))
}

func (r *DoctorRepository) UpdateProfile(id string, fields map[string]interface{}) (*models.DoctorProfile, error) {
	return first[models.DoctorProfile](r.db.From(doctorsTable).
		Update(fields, "representation", "").
		Eq("id", id))
}
