package repository

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const timeSlotsTable = "time_slots"

type TimeSlotRepository struct {
	db Querier
}

func NewTimeSlotRepository(db Querier) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// CreateMany inserts all slots in one request.
func (r *TimeSlotRepository) CreateMany(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	rows := make([]map[string]interface{}, 0, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		rows = append(rows, map[string]interface{}{
			"id":           s.ID,
			"doctor_id":    s.DoctorID,
			"day_of_week":  s.DayOfWeek,
			"start_time":   s.StartTime,
			"end_time":     s.EndTime,
			"is_available": s.IsAvailable,
		})
	}

	return fetch[models.TimeSlot](r.db.From(timeSlotsTable).
		Insert(rows, false, "", "representation", ""))
}

// List returns a doctor's slots. dayOfWeek < 0 means every day.
func (r *TimeSlotRepository) List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error) {
	query := r.db.From(timeSlotsTable).
		Select("*", "", false).
		Eq("doctor_id", doctorID)

	if dayOfWeek >= 0 {
		query = query.Eq("day_of_week", strconv.Itoa(dayOfWeek))
	}

	return fetch[models.TimeSlot](query.
		Order(orderBy("day_of_week", true)).
		Order(orderBy("start_time", true)))
}

func (r *TimeSlotRepository) GetByID(id string) (*models.TimeSlot, error) {
	return first[models.TimeSlot](r.db.From(timeSlotsTable).
		Select("*", "", false).
		Eq("id", id))
}

func (r *TimeSlotRepository) SetAvailable(id string, available bool) (*models.TimeSlot, error) {
	return first[models.TimeSlot](r.db.From(timeSlotsTable).
		Update(map[string]interface{}{"is_available": available}, "representation", "").
		Eq("id", id))
}

func (r *TimeSlotRepository) Delete(id string) error {
	_, _, err := r.db.From(timeSlotsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	return err
}
