// Package response renders the API envelope used by every endpoint:
//
//	{"statusCode": 200, "data": {...}, "message": "...", "success": true}
//
// Errors use the same shape with empty data and success=false.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"playtube-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func JSON(c *gin.Context, status int, data any, message string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error maps a usecase error onto the envelope. Unrecognized errors become a
// generic 500 so that internal details never leak to clients.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	message := "Internal server error"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       gin.H{},
		Message:    message,
		Success:    false,
	})
}

// StatusFor translates the apperror taxonomy into an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
