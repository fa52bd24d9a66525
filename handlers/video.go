package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

type VideoHandler struct {
	video VideoService
}

func NewVideoHandler(video VideoService) *VideoHandler {
	return &VideoHandler{video: video}
}

func (h *VideoHandler) CreateToken(c *gin.Context) {
	var req models.VideoTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tok, err := h.video.Token(actor(c), req.AppointmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", tok)
}
