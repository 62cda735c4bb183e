package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/internal/storage"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// InstallToolsBody is the body of the install-tools action. Exactly one of
// password and credential_id must be set.
type InstallToolsBody struct {
	IP           string `json:"ip" example:"10.0.10.15"`
	Username     string `json:"username,omitempty" example:"root"`
	Password     string `json:"password,omitempty" example:"secret"`
	CredentialID *int   `json:"credential_id,omitempty" example:"3"`
}

// RefreshPreferenceRequest changes the base refresh interval of the VM view
type RefreshPreferenceRequest struct {
	Minutes int `json:"minutes" binding:"required" example:"10"`
}

// GetVMs godoc
// @Summary Get the VM view
// @Description Returns the current page of the VM list with its filter, pagination and polling state. The view is opened on first use.
// @Tags vms
// @Produce json
// @Success 200 {object} console.VMListSnapshot "VM view state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms [get]
func (h *Handler) GetVMs(c *gin.Context) {
	if !h.session.VMs.Snapshot().Open {
		if err := h.session.VMs.Open(c.Request.Context()); err != nil {
			h.respondError(c, err, "Failed to load VMs")
			return
		}
	}
	c.JSON(http.StatusOK, h.session.VMs.Snapshot())
}

// CloseVMs godoc
// @Summary Close the VM view
// @Description Stops polling and every pending timer of the VM view
// @Tags vms
// @Produce json
// @Success 200 {object} console.VMListSnapshot "VM view state"
// @Router /api/v1/console/vms/close [post]
func (h *Handler) CloseVMs(c *gin.Context) {
	h.session.VMs.Close()
	c.JSON(http.StatusOK, h.session.VMs.Snapshot())
}

// UpdateVMFilter godoc
// @Summary Change the VM filter
// @Description Updates keyword, host, status, page or page size. keyword_input is debounced, keyword_submit applies at once. Changing anything but the page returns to page 1.
// @Tags vms
// @Accept json
// @Produce json
// @Param request body console.FilterUpdate true "Filter changes"
// @Success 200 {object} console.VMListSnapshot "VM view state"
// @Failure 400 {object} types.ErrorResponse "Invalid filter"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/filter [put]
func (h *Handler) UpdateVMFilter(c *gin.Context) {
	var req console.FilterUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.session.VMs.Apply(c.Request.Context(), req); err != nil {
		h.respondError(c, err, "Failed to apply VM filter")
		return
	}

	if req.PageSize != nil {
		pref := storage.ViewPreference{View: console.ViewVMs, PageSize: *req.PageSize}
		if err := h.prefs.SavePreference(c.Request.Context(), pref); err != nil {
			h.logger.WithError(err).Warn("Failed to store VM page size")
		}
	}
	c.JSON(http.StatusOK, h.session.VMs.Snapshot())
}

// RefreshVMs godoc
// @Summary Refetch the VM page
// @Tags vms
// @Produce json
// @Success 200 {object} console.VMListSnapshot "VM view state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/refresh [post]
func (h *Handler) RefreshVMs(c *gin.Context) {
	if err := h.session.VMs.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to refresh VMs")
		return
	}
	c.JSON(http.StatusOK, h.session.VMs.Snapshot())
}

// SyncVMs godoc
// @Summary Resync every host
// @Description Asks the backend to resync all hosts; the VM page is refetched after a short delay
// @Tags vms
// @Produce json
// @Success 200 {object} types.ActionResult "Sync started"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/sync [post]
func (h *Handler) SyncVMs(c *gin.Context) {
	result, err := h.session.VMs.Sync(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to sync hosts")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateVM godoc
// @Summary Rename or annotate a VM
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM ID"
// @Param request body types.UpdateVMRequest true "New name and description"
// @Success 200 {object} types.VirtualMachine "Updated VM"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 404 {object} types.ErrorResponse "VM not found"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/vms/{id} [patch]
func (h *Handler) UpdateVM(c *gin.Context) {
	var req types.UpdateVMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vm, err := h.session.VMs.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Failed to update VM")
		return
	}
	c.JSON(http.StatusOK, vm)
}

// PowerVM godoc
// @Summary Submit a power operation
// @Description Starts a power task and opens the fast polling window of the VM view
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM ID"
// @Param request body types.PowerActionRequest true "Power action"
// @Success 202 {object} types.AsyncTaskResponse "Task submitted"
// @Failure 400 {object} types.ErrorResponse "Invalid action"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/{id}/power [post]
func (h *Handler) PowerVM(c *gin.Context) {
	var req types.PowerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	h.logger.WithFields(logrus.Fields{
		"vm_id":  id,
		"action": req.Action,
	}).Info("Submitting power action")

	resp, err := h.session.VMs.Power(c.Request.Context(), id, req.Action)
	if err != nil {
		h.respondError(c, err, "Failed to submit power action")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// CloneVM godoc
// @Summary Clone a VM
// @Description Clones a powered off VM on the current page. Omitted fields keep their defaults; guest network fields are only sent when auto_config_ip is set. The task center is opened to follow the job.
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "Source VM ID"
// @Param request body console.CloneForm true "Clone options"
// @Success 202 {object} types.AsyncTaskResponse "Task submitted"
// @Failure 400 {object} types.ErrorResponse "Invalid form or running source"
// @Failure 404 {object} types.ErrorResponse "VM not on the current page"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/{id}/clone [post]
func (h *Handler) CloneVM(c *gin.Context) {
	vm, ok := h.findVM(c)
	if !ok {
		return
	}

	form := console.NewCloneForm(vm)
	if err := c.ShouldBindJSON(form); err != nil {
		badRequest(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"vm_id":        vm.ID,
		"new_name":     form.Name,
		"customize_ip": form.CustomizeIP,
	}).Info("Submitting clone")

	resp, err := h.session.Clone(c.Request.Context(), form)
	if err != nil {
		h.respondError(c, err, "Failed to submit clone")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// InstallTools godoc
// @Summary Install guest tools over SSH
// @Description Submits a tools installation using either a password or a stored credential, never both. The task center is opened to follow the job.
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM ID"
// @Param request body InstallToolsBody true "SSH login"
// @Success 202 {object} types.AsyncTaskResponse "Task submitted"
// @Failure 400 {object} types.ErrorResponse "Invalid form"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/vms/{id}/install-tools [post]
func (h *Handler) InstallTools(c *gin.Context) {
	var body InstallToolsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	form := &console.InstallToolsForm{VMID: id, Username: console.DefaultGuestUsername}
	if vm, ok := h.lookupVM(id); ok {
		form = console.NewInstallToolsForm(vm)
	}
	if body.IP != "" {
		form.IP = body.IP
	}
	if body.Username != "" {
		form.Username = body.Username
	}

	ctx := c.Request.Context()
	if body.CredentialID != nil {
		if len(h.session.Credentials.Items()) == 0 {
			if _, err := h.session.Credentials.Load(ctx); err != nil {
				h.respondError(c, err, "Failed to load credentials")
				return
			}
		}
		if err := h.session.Credentials.Select(*body.CredentialID, form); err != nil {
			h.respondError(c, err, "Failed to submit tools installation")
			return
		}
	}
	// set after Select so a password next to a credential is rejected
	form.Password = body.Password

	resp, err := h.session.InstallTools(ctx, form)
	if err != nil {
		h.respondError(c, err, "Failed to submit tools installation")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// CreateSnapshot godoc
// @Summary Snapshot a VM
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM ID"
// @Param request body types.SnapshotCreateRequest true "Snapshot name and description"
// @Success 202 {object} types.AsyncTaskResponse "Task submitted"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/vms/{id}/snapshots [post]
func (h *Handler) CreateSnapshot(c *gin.Context) {
	var req types.SnapshotCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.session.VMs.CreateSnapshot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Failed to create snapshot")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// RevertSnapshot godoc
// @Summary Revert a VM to a snapshot
// @Tags vms
// @Produce json
// @Param id path string true "VM ID"
// @Param snapshot_id path string true "Snapshot ID"
// @Success 202 {object} types.AsyncTaskResponse "Task submitted"
// @Failure 404 {object} types.ErrorResponse "Snapshot not found"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Router /api/v1/console/vms/{id}/snapshots/{snapshot_id}/revert [post]
func (h *Handler) RevertSnapshot(c *gin.Context) {
	resp, err := h.session.VMs.RevertSnapshot(c.Request.Context(), c.Param("id"), c.Param("snapshot_id"))
	if err != nil {
		h.respondError(c, err, "Failed to revert snapshot")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// SetRefreshInterval godoc
// @Summary Change the VM refresh interval
// @Description Sets the base polling interval in minutes. The value must be one of the configured options and is remembered across restarts.
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body RefreshPreferenceRequest true "Interval in minutes"
// @Success 200 {object} console.VMListSnapshot "VM view state"
// @Failure 400 {object} types.ErrorResponse "Unsupported interval"
// @Failure 500 {object} types.ErrorResponse "Preference not stored"
// @Router /api/v1/console/preferences/refresh [put]
func (h *Handler) SetRefreshInterval(c *gin.Context) {
	var req RefreshPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.session.VMs.SetRefreshMinutes(req.Minutes); err != nil {
		h.respondError(c, err, "Unsupported refresh interval")
		return
	}

	pref := storage.ViewPreference{View: console.ViewVMs, RefreshMinutes: req.Minutes}
	if err := h.prefs.SavePreference(c.Request.Context(), pref); err != nil {
		h.logger.WithError(err).Error("Failed to store refresh interval")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "Failed to store refresh interval",
			Code:    CodeStorageError,
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, h.session.VMs.Snapshot())
}

// findVM resolves the :id parameter against the current page, writing a
// 404 if the VM is not displayed
func (h *Handler) findVM(c *gin.Context) (types.VirtualMachine, bool) {
	id := c.Param("id")
	vm, ok := h.lookupVM(id)
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "VM not found",
			Code:    CodeNotFound,
			Details: "VM " + id + " is not on the current page of the VM view",
		})
	}
	return vm, ok
}

func (h *Handler) lookupVM(id string) (types.VirtualMachine, bool) {
	for _, vm := range h.session.VMs.Snapshot().Items {
		if vm.ID == id {
			return vm, true
		}
	}
	return types.VirtualMachine{}, false
}
