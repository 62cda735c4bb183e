package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
)

// Error codes returned in types.ErrorResponse
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidID          = "INVALID_ID"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeBackendRejected    = "BACKEND_REJECTED"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeBackendError       = "BACKEND_ERROR"
	CodeStorageError       = "STORAGE_ERROR"
)

// respondError maps err onto a status code and writes it. summary is the
// human readable action that failed.
func (h *Handler) respondError(c *gin.Context, err error, summary string) {
	var vErr *console.ValidationError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   summary,
			Code:    CodeValidationFailed,
			Details: vErr.Details(),
		})
		return

	case backend.IsTransport(err):
		h.logger.WithError(err).Error(summary)
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "Backend unavailable",
			Code:    CodeBackendUnavailable,
			Details: "Unable to reach the virtualization backend. Please try again later.",
		})
		return

	case errors.As(err, &apiErr) && apiErr.ClientError():
		h.logger.WithError(err).Warn(summary)
		c.JSON(apiErr.StatusCode, types.ErrorResponse{
			Error:   summary,
			Code:    CodeBackendRejected,
			Details: backend.Message(err, http.StatusText(apiErr.StatusCode)),
		})
		return
	}

	h.logger.WithError(err).Error(summary)
	c.JSON(http.StatusBadGateway, types.ErrorResponse{
		Error:   summary,
		Code:    CodeBackendError,
		Details: backend.Message(err, "The backend failed to process the request"),
	})
}

// badRequest reports a body or query that could not be decoded
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "Invalid request body",
		Code:    CodeInvalidRequest,
		Details: err.Error(),
	})
}

// intParam parses a numeric path parameter, writing a 400 if it is not one
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "Invalid " + name,
			Code:    CodeInvalidID,
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
