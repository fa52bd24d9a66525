package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type PaymentHandler struct {
	payments PaymentService
}

func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateOrder opens a checkout order for the consultation fee.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), actor(c).UserID, req.AppointmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Payment order created", order)
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.payments.Verify(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Payment verified", payment)
}

func (h *PaymentHandler) GetPayments(c *gin.Context) {
	list, err := h.payments.List(actor(c).UserID, c.Query("appointment_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", list)
}
