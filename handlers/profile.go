package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profiles.Update(actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *ProfileHandler) UpdateDoctorProfile(c *gin.Context) {
	var req models.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	doctor, err := h.profiles.UpdateDoctor(actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Doctor profile updated successfully", doctor)
}

// UploadAvatar accepts a multipart "file" field.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, ok := formFile(c, services.MaxAvatarSize)
	if !ok {
		return
	}
	src, err := file.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer src.Close()

	profile, err := h.profiles.UploadAvatar(c.Request.Context(), actor(c).UserID, file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Avatar updated successfully", profile)
}
