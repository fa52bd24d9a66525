package models

import "time"

type PaymentState string

const (
	PaymentCreated       PaymentState = "created"
	PaymentStatePaid     PaymentState = "paid"
	PaymentFailed        PaymentState = "failed"
	PaymentStateRefunded PaymentState = "refunded"
)

type Payment struct {
	ID                string       `json:"id"`
	AppointmentID     string       `json:"appointment_id"`
	PatientID         string       `json:"patient_id"`
	Amount            int64        `json:"amount"`
	Currency          string       `json:"currency"`
	ProviderOrderID   string       `json:"provider_order_id"`
	ProviderPaymentID *string      `json:"provider_payment_id,omitempty"`
	Status            PaymentState `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type CreateOrderRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
}

type OrderResponse struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"key_id"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
