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

// PaymentGateway creates provider orders and checks checkout signatures.
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type PaymentService struct {
	payments     PaymentStore
	appointments AppointmentStore
	doctors      DoctorStore
	gateway      PaymentGateway
	publisher    EventPublisher
	currency     string
	log          *logger.Logger
	now          func() time.Time
}

func NewPaymentService(
	payments PaymentStore,
	appointments AppointmentStore,
	doctors DoctorStore,
	gateway PaymentGateway,
	publisher EventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		appointments: appointments,
		doctors:      doctors,
		gateway:      gateway,
		publisher:    publisher,
		currency:     cfg.Razorpay.Currency,
		log:          log,
		now:          time.Now,
	}
}

func (s *PaymentService) CreateOrder(ctx context.Context, patientID, appointmentID string) (*models.OrderResponse, error) {
	appt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("appointment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt.PatientID != patientID {
		return nil, fmt.Errorf("appointment %w", ErrNotFound)
	}
	if appt.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: appointment is cancelled", ErrInvalid)
	}
	if appt.PaymentStatus != models.PaymentUnpaid {
		return nil, fmt.Errorf("%w: appointment is already %s", ErrConflict, appt.PaymentStatus)
	}

	doctor, err := s.doctors.GetProfile(appt.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	if doctor.ConsultationFee <= 0 {
		return nil, fmt.Errorf("%w: consultation has no fee", ErrInvalid)
	}

	// an open order for the same amount is handed out again
	open, err := s.payments.ListForAppointment(appt.ID, models.PaymentCreated)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range open {
		if p.Amount == doctor.ConsultationFee && p.Currency == s.currency {
			return s.orderResponse(&p), nil
		}
	}

	orderID, err := s.gateway.CreateOrder(doctor.ConsultationFee, s.currency, appt.ID)
	if err != nil {
		s.log.WithComponent("payments").WithError(err).Error("failed to create provider order")
		return nil, fmt.Errorf("%w: payment provider error", ErrUnavailable)
	}

	payment, err := s.payments.Create(&models.Payment{
		AppointmentID:   appt.ID,
		PatientID:       patientID,
		Amount:          doctor.ConsultationFee,
		Currency:        s.currency,
		ProviderOrderID: orderID,
		Status:          models.PaymentCreated,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return s.orderResponse(payment), nil
}

func (s *PaymentService) orderResponse(p *models.Payment) *models.OrderResponse {
	return &models.OrderResponse{
		PaymentID: p.ID,
		OrderID:   p.ProviderOrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		KeyID:     s.gateway.KeyID(),
	}
}

// Verify checks the checkout signature and settles the payment. A bad
// signature marks the payment failed.
func (s *PaymentService) Verify(ctx context.Context, patientID string, req models.VerifyPaymentRequest) (*models.Payment, error) {
	payment, err := s.payments.GetByOrderID(req.OrderID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("payment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment.PatientID != patientID {
		return nil, fmt.Errorf("payment %w", ErrNotFound)
	}

	if payment.Status == models.PaymentStatePaid {
		if payment.ProviderPaymentID != nil && *payment.ProviderPaymentID == req.PaymentID {
			return payment, nil
		}
		return nil, fmt.Errorf("%w: order is already paid", ErrConflict)
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if _, err := s.payments.Update(payment.ID, map[string]interface{}{
			"status":     models.PaymentFailed,
			"updated_at": s.now().UTC(),
		}); err != nil {
			s.log.WithComponent("payments").WithError(err).Error("failed to mark payment failed")
		}
		s.log.Audit(patientID, "verify", "payment", false, map[string]interface{}{"order_id": req.OrderID})
		return nil, fmt.Errorf("%w: payment signature mismatch", ErrInvalid)
	}

	paid, err := s.payments.Update(payment.ID, map[string]interface{}{
		"status":              models.PaymentStatePaid,
		"provider_payment_id": req.PaymentID,
		"updated_at":          s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	if _, err := s.appointments.Update(payment.AppointmentID, map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"updated_at":     s.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("update appointment payment status: %w", err)
	}

	err = s.publisher.Publish(ctx, events.PaymentCompleted, events.PaymentPayload{
		PaymentID:     paid.ID,
		AppointmentID: paid.AppointmentID,
		PatientID:     paid.PatientID,
		Amount:        paid.Amount,
		Currency:      paid.Currency,
	})
	if err != nil {
		s.log.WithComponent("payments").WithError(err).Warn("failed to publish event")
	}

	s.log.Audit(patientID, "verify", "payment", true, map[string]interface{}{"payment_id": paid.ID})
	return paid, nil
}

func (s *PaymentService) List(patientID, appointmentID string) ([]models.Payment, error) {
	return s.payments.List(patientID, appointmentID)
}
