package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type AdminHandler struct {
	admin        AdminService
	appointments AppointmentService
}

func NewAdminHandler(admin AdminService, appointments AppointmentService) *AdminHandler {
	return &AdminHandler{
		admin:        admin,
		appointments: appointments,
	}
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	filter := models.UserFilter{Role: models.Role(c.Query("role"))}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "active must be true or false",
			})
			return
		}
		filter.Active = &active
	}

	users, err := h.admin.ListUsers(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", users)
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req models.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.admin.SetActive(actor(c), c.Param("id"), *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User updated successfully", user)
}

// GetAllAppointments lists appointments across every doctor and patient.
// date narrows to a single day.
func (h *AdminHandler) GetAllAppointments(c *gin.Context) {
	filter := models.AppointmentFilter{
		PatientID: c.Query("patient_id"),
		DoctorID:  c.Query("doctor_id"),
		Status:    models.AppointmentStatus(c.Query("status")),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}
	if date := c.Query("date"); date != "" {
		filter.From, filter.To = date, date
	}
	if !validDate(filter.From) || !validDate(filter.To) {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "date, from and to must be YYYY-MM-DD",
		})
		return
	}

	list, err := h.appointments.List(actor(c), filter, false)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", list)
}
