package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/internal/storage"
	"github.com/sirupsen/logrus"
)

// PreferenceStore persists per-view settings
type PreferenceStore interface {
	GetPreference(ctx context.Context, view string) (*storage.ViewPreference, error)
	SavePreference(ctx context.Context, pref storage.ViewPreference) error
}

// SubmissionLog lists journaled submissions
type SubmissionLog interface {
	ListSubmissions(ctx context.Context, view string, limit int) ([]storage.SubmissionRecord, error)
}

// Handler serves the console views of one session over HTTP
type Handler struct {
	session *console.Session
	prefs   PreferenceStore
	journal SubmissionLog
	logger  *logrus.Logger
}

// NewHandler creates a new console handler instance
func NewHandler(session *console.Session, prefs PreferenceStore, journal SubmissionLog, logger *logrus.Logger) *Handler {
	return &Handler{
		session: session,
		prefs:   prefs,
		journal: journal,
		logger:  logger,
	}
}

// RegisterRoutes mounts every console route on rg
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	vms := rg.Group("/vms")
	{
		vms.GET("", h.GetVMs)
		vms.POST("/close", h.CloseVMs)
		vms.PUT("/filter", h.UpdateVMFilter)
		vms.POST("/refresh", h.RefreshVMs)
		vms.POST("/sync", h.SyncVMs)
		vms.PATCH("/:id", h.UpdateVM)
		vms.POST("/:id/power", h.PowerVM)
		vms.POST("/:id/clone", h.CloneVM)
		vms.POST("/:id/install-tools", h.InstallTools)
		vms.POST("/:id/snapshots", h.CreateSnapshot)
		vms.POST("/:id/snapshots/:snapshot_id/revert", h.RevertSnapshot)
	}
	rg.PUT("/preferences/refresh", h.SetRefreshInterval)

	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.GetTasks)
		tasks.POST("/open", h.OpenTasks)
		tasks.POST("/close", h.CloseTasks)
		tasks.POST("/refresh", h.RefreshTasks)
		tasks.POST("/load-more", h.LoadMoreTasks)
	}

	hosts := rg.Group("/hosts")
	{
		hosts.GET("", h.GetHosts)
		hosts.POST("", h.AddHost)
		hosts.POST("/probe", h.ProbeHost)
		hosts.POST("/sync", h.SyncHosts)
		hosts.POST("/sort", h.SortHosts)
		hosts.POST("/order", h.OrderHosts)
		hosts.PUT("/:id", h.UpdateHost)
		hosts.DELETE("/:id", h.DeleteHost)
	}

	rg.GET("/dashboard", h.GetDashboard)

	creds := rg.Group("/credentials")
	{
		creds.GET("", h.ListCredentials)
		creds.POST("", h.CreateCredential)
		creds.DELETE("/:id", h.DeleteCredential)
	}

	rg.GET("/submissions", h.ListSubmissions)
}

// RestorePreferences applies the stored VM view settings to the session
func (h *Handler) RestorePreferences(ctx context.Context) error {
	pref, err := h.prefs.GetPreference(ctx, console.ViewVMs)
	if err != nil {
		return err
	}
	if pref == nil {
		return nil
	}

	if pref.RefreshMinutes > 0 {
		if err := h.session.VMs.SetRefreshMinutes(pref.RefreshMinutes); err != nil {
			h.logger.WithError(err).WithField("refresh_minutes", pref.RefreshMinutes).
				Warn("Ignoring stored refresh interval")
		}
	}
	if pref.PageSize > 0 {
		size := pref.PageSize
		if err := h.session.VMs.Apply(ctx, console.FilterUpdate{PageSize: &size}); err != nil {
			return fmt.Errorf("failed to apply stored page size: %w", err)
		}
	}

	h.logger.WithFields(logrus.Fields{
		"refresh_minutes": pref.RefreshMinutes,
		"page_size":       pref.PageSize,
	}).Info("Restored VM view preferences")
	return nil
}
