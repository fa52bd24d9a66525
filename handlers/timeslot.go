package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type TimeSlotHandler struct {
	slots TimeSlotService
}

func NewTimeSlotHandler(slots TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{slots: slots}
}

// GenerateSlots splits a weekly availability window of the calling doctor
// into fixed-length slots.
func (h *TimeSlotHandler) GenerateSlots(c *gin.Context) {
	var req models.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slots, err := h.slots.Generate(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Time slots created successfully", slots)
}

func (h *TimeSlotHandler) GetTimeSlots(c *gin.Context) {
	day := -1
	if v := c.Query("day_of_week"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "day_of_week must be between 0 and 6",
			})
			return
		}
		day = d
	}

	slots, err := h.slots.List(c.Query("doctor_id"), day)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", slots)
}

func (h *TimeSlotHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.slots.Available(c.Request.Context(), c.Query("doctor_id"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", slots)
}

func (h *TimeSlotHandler) UpdateTimeSlot(c *gin.Context) {
	var req models.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slot, err := h.slots.SetAvailable(c.Request.Context(), actor(c).UserID, c.Param("id"), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Time slot updated successfully", slot)
}

func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	if err := h.slots.Delete(c.Request.Context(), actor(c).UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Time slot deleted successfully", nil)
}
