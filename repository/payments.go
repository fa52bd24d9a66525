package repository

import (
	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const paymentsTable = "payments"

type PaymentRepository struct {
	db Querier
}

func NewPaymentRepository(db Querier) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) (*models.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":                p.ID,
		"appointment_id":    p.AppointmentID,
		"patient_id":        p.PatientID,
		"amount":            p.Amount,
		"currency":          p.Currency,
		"provider_order_id": p.ProviderOrderID,
		"status":            p.Status,
	}

	return first[models.Payment](r.db.From(paymentsTable).
		Insert(row, false, "", "representation", ""))
}

func (r *PaymentRepository) GetByOrderID(orderID string) (*models.Payment, error) {
	return first[models.Payment](r.db.From(paymentsTable).
		Select("*", "", false).
		Eq("provider_order_id", orderID))
}

func (r *PaymentRepository) List(patientID, appointmentID string) ([]models.Payment, error) {
	query := r.db.From(paymentsTable).
		Select("*", "", false).
		Eq("patient_id", patientID)

	if appointmentID != "" {
		query = query.Eq("appointment_id", appointmentID)
	}

	return fetch[models.Payment](query.Order(orderBy("created_at", false)))
}

// ListForAppointment returns payments of an appointment in a given state.
func (r *PaymentRepository) ListForAppointment(appointmentID string, status models.PaymentState) ([]models.Payment, error) {
	return fetch[models.Payment](r.db.From(paymentsTable).
		Select("*", "", false).
		Eq("appointment_id", appointmentID).
		Eq("status", string(status)))
}

func (r *PaymentRepository) Update(id string, fields map[string]interface{}) (*models.Payment, error) {
	return first[models.Payment](r.db.From(paymentsTable).
		Update(fields, "representation", "").
		Eq("id", id))
}
