package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type PrescriptionHandler struct {
	prescriptions PrescriptionService
}

func NewPrescriptionHandler(prescriptions PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions}
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req models.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.prescriptions.Create(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Prescription created successfully", p)
}

func (h *PrescriptionHandler) GetPrescriptions(c *gin.Context) {
	list, err := h.prescriptions.List(actor(c), models.PrescriptionFilter{
		PatientID: c.Query("patient_id"),
		Status:    models.PrescriptionStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", list)
}

func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	p, err := h.prescriptions.Get(actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", p)
}

func (h *PrescriptionHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdatePrescriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.prescriptions.UpdateStatus(actor(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Prescription updated successfully", p)
}

// DownloadPDF streams the rendered prescription as an attachment.
func (h *PrescriptionHandler) DownloadPDF(c *gin.Context) {
	data, filename, err := h.prescriptions.PDF(actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
