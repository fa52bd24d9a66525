package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
)

// RequestOTP sends a verification code to the phone of an active user.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req models.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.RequestOTP(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "OTP sent successfully", res)
}

// VerifyOTP checks the code and logs the user in.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookie(c, res)
	respond(c, http.StatusOK, "Login successful", res)
}
