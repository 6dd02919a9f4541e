package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alex-user-go/travel/internal/search"
	"github.com/alex-user-go/travel/internal/search/types"
)

// ErrorCode is the machine-readable part of an error response.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"
	CodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

func writeError(c *gin.Context, status int, code ErrorCode, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

// validationError strips the sentinel prefix so clients see only the field message.
func validationError(c *gin.Context, err error) {
	msg := err.Error()
	if errors.Is(err, types.ErrInvalidCriteria) {
		msg = strings.TrimPrefix(msg, types.ErrInvalidCriteria.Error()+": ")
	}
	writeError(c, http.StatusBadRequest, CodeValidation, msg)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, search.ErrUnknownProvider):
		writeError(c, http.StatusNotFound, CodeProviderNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
