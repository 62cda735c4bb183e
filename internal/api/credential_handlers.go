package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/pkg/types"
)

// ListCredentials godoc
// @Summary List stored credentials
// @Tags credentials
// @Produce json
// @Success 200 {array} types.Credential "Stored credentials"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/credentials [get]
func (h *Handler) ListCredentials(c *gin.Context) {
	creds, err := h.session.Credentials.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load credentials")
		return
	}
	c.JSON(http.StatusOK, creds)
}

// CreateCredential godoc
// @Summary Store a credential
// @Tags credentials
// @Accept json
// @Produce json
// @Param request body types.CreateCredentialRequest true "Credential"
// @Success 201 {object} types.Credential "Stored credential"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/credentials [post]
func (h *Handler) CreateCredential(c *gin.Context) {
	var req types.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cred, err := h.session.Credentials.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to store credential")
		return
	}
	c.JSON(http.StatusCreated, cred)
}

// DeleteCredential godoc
// @Summary Delete a credential
// @Tags credentials
// @Param id path int true "Credential ID"
// @Success 204 "Credential deleted"
// @Failure 400 {object} types.ErrorResponse "Invalid ID"
// @Failure 404 {object} types.ErrorResponse "Credential not found"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/credentials/{id} [delete]
func (h *Handler) DeleteCredential(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.session.Credentials.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete credential")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubmissions godoc
// @Summary List journaled submissions
// @Description Returns the most recent actions sent to the backend, newest first
// @Tags submissions
// @Produce json
// @Param view query string false "Only this view" example("vms")
// @Param limit query int false "Maximum number of records" example(50)
// @Success 200 {array} storage.SubmissionRecord "Journal records"
// @Failure 400 {object} types.ErrorResponse "Invalid limit"
// @Failure 500 {object} types.ErrorResponse "Storage error"
// @Router /api/v1/console/submissions [get]
func (h *Handler) ListSubmissions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "Invalid limit",
				Code:    CodeInvalidRequest,
				Details: "limit must be between 1 and 1000",
			})
			return
		}
		limit = n
	}

	records, err := h.journal.ListSubmissions(c.Request.Context(), c.Query("view"), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list submissions")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "Failed to list submissions",
			Code:    CodeStorageError,
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, records)
}
