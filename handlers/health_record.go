package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

type HealthRecordHandler struct {
	records HealthRecordService
}

func NewHealthRecordHandler(records HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{records: records}
}

func (h *HealthRecordHandler) CreateRecord(c *gin.Context) {
	var req models.CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.records.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Health record created successfully", rec)
}

func (h *HealthRecordHandler) GetRecords(c *gin.Context) {
	list, err := h.records.List(actor(c), models.HealthRecordFilter{
		PatientID:  c.Query("patient_id"),
		RecordType: models.RecordType(c.Query("record_type")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", list)
}

func (h *HealthRecordHandler) GetRecordByID(c *gin.Context) {
	rec, err := h.records.Get(actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", rec)
}

func (h *HealthRecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Health record deleted successfully", nil)
}

// UploadFile attaches the multipart "file" field to the record.
func (h *HealthRecordHandler) UploadFile(c *gin.Context) {
	file, ok := formFile(c, services.MaxRecordFileSize)
	if !ok {
		return
	}
	src, err := file.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer src.Close()

	rec, err := h.records.AttachFile(c.Request.Context(), actor(c), c.Param("id"), file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "File uploaded successfully", rec)
}

func (h *HealthRecordHandler) GetFileURL(c *gin.Context) {
	url, err := h.records.FileURL(actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"url": url})
}
