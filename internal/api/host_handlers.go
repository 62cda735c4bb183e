package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// HostSortRequest selects the sort column of the host list
type HostSortRequest struct {
	Key string `json:"key" binding:"required" example:"vm_count"`
}

// GetHosts godoc
// @Summary Get the host list
// @Description Returns the managed ESXi hosts in display order. The view is opened on first use.
// @Tags hosts
// @Produce json
// @Success 200 {object} console.HostListSnapshot "Host list state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/hosts [get]
func (h *Handler) GetHosts(c *gin.Context) {
	if !h.session.Hosts.Snapshot().Open {
		if err := h.session.Hosts.Open(c.Request.Context()); err != nil {
			h.respondError(c, err, "Failed to load hosts")
			return
		}
	}
	c.JSON(http.StatusOK, h.session.Hosts.Snapshot())
}

// AddHost godoc
// @Summary Register an ESXi host
// @Tags hosts
// @Accept json
// @Produce json
// @Param request body types.AddHostRequest true "Host connection"
// @Success 201 {object} types.EsxiHost "Registered host"
// @Failure 400 {object} types.ErrorResponse "Invalid request or rejected login"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/hosts [post]
func (h *Handler) AddHost(c *gin.Context) {
	var req types.AddHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"ip":   req.IP,
		"port": req.Port,
	}).Info("Adding host")

	host, err := h.session.Hosts.Add(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to add host")
		return
	}
	c.JSON(http.StatusCreated, host)
}

// ProbeHost godoc
// @Summary Test a host login
// @Description Connects to the host with the given credentials without registering it. A rejected login is reported in the result, not as an error.
// @Tags hosts
// @Accept json
// @Produce json
// @Param request body types.AddHostRequest true "Host connection"
// @Success 200 {object} console.ProbeResult "Probe outcome"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/hosts/probe [post]
func (h *Handler) ProbeHost(c *gin.Context) {
	var req types.AddHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.session.Hosts.Probe(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to probe host")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateHost godoc
// @Summary Update a host
// @Description Empty fields are left unchanged; an empty password keeps the stored one
// @Tags hosts
// @Accept json
// @Produce json
// @Param id path int true "Host ID"
// @Param request body types.UpdateHostRequest true "Changed fields"
// @Success 200 {object} types.EsxiHost "Updated host"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 404 {object} types.ErrorResponse "Host not found"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/hosts/{id} [put]
func (h *Handler) UpdateHost(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req types.UpdateHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	host, err := h.session.Hosts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err, "Failed to update host")
		return
	}
	c.JSON(http.StatusOK, host)
}

// DeleteHost godoc
// @Summary Remove a host
// @Tags hosts
// @Param id path int true "Host ID"
// @Success 204 "Host removed"
// @Failure 400 {object} types.ErrorResponse "Invalid ID"
// @Failure 404 {object} types.ErrorResponse "Host not found"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/hosts/{id} [delete]
func (h *Handler) DeleteHost(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.session.Hosts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete host")
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncHosts godoc
// @Summary Resync hosts
// @Description Resyncs one host, or all hosts when host_id is omitted. The list reloads after a short delay.
// @Tags hosts
// @Accept json
// @Produce json
// @Param request body types.SyncRequest false "Host to sync"
// @Success 200 {object} types.ActionResult "Sync started"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/hosts/sync [post]
func (h *Handler) SyncHosts(c *gin.Context) {
	var req types.SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	result, err := h.session.Hosts.Sync(c.Request.Context(), req.HostID)
	if err != nil {
		h.respondError(c, err, "Failed to sync hosts")
		return
	}
	c.JSON(http.StatusOK, result)
}

// SortHosts godoc
// @Summary Sort the host list
// @Description The first selection of a column sorts descending, selecting it again toggles the direction
// @Tags hosts
// @Accept json
// @Produce json
// @Param request body HostSortRequest true "Sort column"
// @Success 200 {object} console.HostListSnapshot "Host list state"
// @Failure 400 {object} types.ErrorResponse "Unknown column"
// @Router /api/v1/console/hosts/sort [post]
func (h *Handler) SortHosts(c *gin.Context) {
	var req HostSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	key, err := console.ParseHostSortKey(req.Key)
	if err != nil {
		badRequest(c, err)
		return
	}

	h.session.Hosts.SortBy(key)
	c.JSON(http.StatusOK, h.session.Hosts.Snapshot())
}

// OrderHosts godoc
// @Summary Save the host order
// @Description Stores host_ids as the display order; with an empty list the current order (for example after sorting) is stored
// @Tags hosts
// @Accept json
// @Produce json
// @Param request body types.ReorderRequest true "Host IDs in display order"
// @Success 200 {object} types.ActionResult "Order saved"
// @Failure 400 {object} types.ErrorResponse "Not a permutation of the displayed hosts"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/hosts/order [post]
func (h *Handler) OrderHosts(c *gin.Context) {
	var req types.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if len(req.HostIDs) > 0 {
		if err := h.session.Hosts.SetOrder(req.HostIDs); err != nil {
			h.respondError(c, err, "Invalid host order")
			return
		}
	}

	result, err := h.session.Hosts.SaveOrder(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to save host order")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDashboard godoc
// @Summary Get the dashboard
// @Description Returns host, VM and datastore totals. The dashboard refreshes periodically once opened.
// @Tags dashboard
// @Produce json
// @Success 200 {object} console.DashboardSnapshot "Dashboard state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	if !h.session.Dashboard.Snapshot().Open {
		if err := h.session.Dashboard.Open(c.Request.Context()); err != nil {
			h.respondError(c, err, "Failed to load dashboard")
			return
		}
	}
	c.JSON(http.StatusOK, h.session.Dashboard.Snapshot())
}
