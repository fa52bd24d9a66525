package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type DoctorHandler struct {
	doctors DoctorDirectory
}

func NewDoctorHandler(doctors DoctorDirectory) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

// GetDoctors lists active doctors, optionally filtered by specialty, name and
// availability.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	filter := models.DoctorFilter{
		Specialty: c.Query("specialty"),
		Search:    c.Query("search"),
	}
	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "available must be true or false",
			})
			return
		}
		filter.AvailableOnly = available
	}

	doctors, err := h.doctors.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", doctors)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	doctor, err := h.doctors.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", doctor)
}
