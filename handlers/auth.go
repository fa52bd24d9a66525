package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/models"
)

const tokenCookie = "token"

type AuthHandler struct {
	auth   AuthService
	config *config.Config
}

func NewAuthHandler(auth AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		config: cfg,
	}
}

// Register creates a patient or doctor account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookie(c, res)
	respond(c, http.StatusCreated, "Registration successful", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookie(c, res)
	respond(c, http.StatusOK, "Login successful", res)
}

// Refresh rotates a refresh token into a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookie(c, res)
	respond(c, http.StatusOK, "Token refreshed", res)
}

// Logout revokes every refresh token of the caller and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), actor(c).UserID); err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", h.secureCookies(), true)
	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// setTokenCookie stores the access token in an HttpOnly cookie for browser
// clients. Secure is off only for local development.
func (h *AuthHandler) setTokenCookie(c *gin.Context, res *models.LoginResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, res.AccessToken, int(res.ExpiresIn), "/", "", h.secureCookies(), true)
}

func (h *AuthHandler) secureCookies() bool {
	return !h.config.IsLocal()
}
