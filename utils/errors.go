package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppError carries the HTTP status class alongside the message so
// controllers can surface the taxonomy of failures uniformly:
// unauthenticated, forbidden, validation, not found, conflict,
// gateway.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func ErrUnauthenticated() *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: "authentication required"}
}

func ErrForbidden(reason string) *AppError {
	if reason == "" {
		reason = "you do not have permission to perform this action"
	}
	return &AppError{Code: http.StatusForbidden, Message: reason}
}

func ErrValidation(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func ErrNotFound(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found"}
}

func ErrConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func ErrGateway(err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: "payment gateway error: " + err.Error()}
}

// RespondAppError writes an AppError with its own status code and
// anything else as a 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondError(c, appErr.Code, appErr)
		return
	}
	RespondError(c, http.StatusInternalServerError, err)
}

// DBError maps persistence failures onto the taxonomy: missing rows
// to not-found, duplicate keys to conflict. Requires TranslateError
// on the gorm config.
func DBError(err error, resource string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict(resource + " already exists")
	}
	return err
}
