package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type AppointmentHandler struct {
	appointments AppointmentService
}

func NewAppointmentHandler(appointments AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.Book(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Appointment booked successfully", appt)
}

// GetAppointments lists the caller's appointments. Admins see everyone's.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filter := models.AppointmentFilter{
		Status: models.AppointmentStatus(c.Query("status")),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	if !validDate(filter.From) || !validDate(filter.To) {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "from and to must be YYYY-MM-DD",
		})
		return
	}
	upcoming, _ := strconv.ParseBool(c.Query("upcoming"))

	list, err := h.appointments.List(actor(c), filter, upcoming)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", list)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.appointments.Get(actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", appt)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Appointment "+string(appt.Status), appt)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.Reschedule(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Appointment rescheduled successfully", appt)
}

func (h *AppointmentHandler) GetDashboard(c *gin.Context) {
	dash, err := h.appointments.Dashboard(actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dash)
}
