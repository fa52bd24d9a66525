package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/middleware"
	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

const dateLayout = "2006-01-02"

// multipartSlack covers the form boundary and part headers around a file.
const multipartSlack = 64 << 10

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.Response{
		Success: false,
		Error:   fmt.Sprintf("Invalid request body: %v", err),
	})
}

// respondError maps service error kinds to status codes. Unknown errors are
// logged through gin and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Internal server error"
	}
	c.JSON(status, models.Response{
		Success: false,
		Error:   msg,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// formFile reads the "file" part of a multipart body no larger than limit
// plus multipartSlack. It writes the error response itself.
func formFile(c *gin.Context, limit int64) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.Response{
				Success: false,
				Error:   fmt.Sprintf("file exceeds %d MiB", limit>>20),
			})
			return nil, false
		}
		badRequest(c, err)
		return nil, false
	}
	return file, true
}

// actor reads the caller set by middleware.AuthMiddleware.
func actor(c *gin.Context) services.Actor {
	role, _ := c.Get(middleware.KeyRole)
	r, _ := role.(models.Role)
	return services.Actor{
		UserID: c.GetString(middleware.KeyUserID),
		Role:   r,
	}
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
