package console

import (
	"context"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// DashboardSource provides the data the dashboard aggregates
type DashboardSource interface {
	ListHosts(ctx context.Context) ([]types.EsxiHost, error)
	DatastoreStats(ctx context.Context) (*types.DatastoreStats, error)
}

// DashboardSummary aggregates the inventory over all hosts
type DashboardSummary struct {
	TotalHosts    int                  `json:"total_hosts"`
	OnlineHosts   int                  `json:"online_hosts"`
	TotalVMs      int                  `json:"total_vms"`
	RunningVMs    int                  `json:"running_vms"`
	TotalCores    int                  `json:"total_cores"`
	TotalMemoryGB float64              `json:"total_memory_gb"`
	Datastores    types.DatastoreStats `json:"datastores"`
	Hosts         []types.EsxiHost     `json:"hosts"`
}

// DashboardSnapshot is a copy of the dashboard state
type DashboardSnapshot struct {
	DashboardSummary
	Open                bool      `json:"open"`
	Stale               bool      `json:"stale"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Summarize aggregates hosts into a summary
func Summarize(hosts []types.EsxiHost, stats types.DatastoreStats) DashboardSummary {
	s := DashboardSummary{
		TotalHosts: len(hosts),
		Datastores: stats,
		Hosts:      hosts,
	}
	for _, h := range hosts {
		if h.Status == types.HostStatusOnline {
			s.OnlineHosts++
		}
		s.TotalVMs += h.VMCount
		s.RunningVMs += h.VMsRunning
		s.TotalCores += h.CPUCores
		s.TotalMemoryGB += h.MemoryTotalGB
	}
	return s
}

// Dashboard periodically reloads the inventory summary
type Dashboard struct {
	source   DashboardSource
	interval time.Duration
	logger   *logrus.Logger
	observer Observer

	mu        sync.Mutex
	open      bool
	summary   DashboardSummary
	failures  int
	lastErr   string
	updatedAt time.Time

	guard  requestGuard
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDashboard creates a closed dashboard that refreshes every interval
func NewDashboard(source DashboardSource, interval time.Duration, logger *logrus.Logger, observer Observer) *Dashboard {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Dashboard{
		source:   source,
		interval: interval,
		logger:   logger,
		observer: observer,
	}
}

// Open loads the dashboard and starts the periodic refresh
func (d *Dashboard) Open(ctx context.Context) error {
	d.mu.Lock()
	d.open = true
	if d.cancel == nil {
		loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		d.cancel = cancel
		d.done = make(chan struct{})
		go d.loop(loopCtx, d.done)
	}
	d.mu.Unlock()

	return d.Refresh(ctx)
}

// Close stops the periodic refresh
func (d *Dashboard) Close() {
	d.mu.Lock()
	d.open = false
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	d.guard.invalidate()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Refresh reloads hosts and datastore statistics
func (d *Dashboard) Refresh(ctx context.Context) error {
	reqCtx, seq := d.guard.begin(ctx)
	start := time.Now()

	hosts, err := d.source.ListHosts(reqCtx)
	var stats *types.DatastoreStats
	if err == nil {
		stats, err = d.source.DatastoreStats(reqCtx)
	}
	if !backend.IsCanceled(err) {
		d.observer.FetchCompleted(ViewDashboard, time.Since(start), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		if backend.IsCanceled(err) || !d.guard.current(seq) || !d.open {
			return nil
		}
		d.failures++
		d.lastErr = backend.Message(err, err.Error())
		d.logger.WithError(err).Warn("Failed to refresh dashboard")
		return err
	}
	if !d.open || !d.guard.accept(seq) {
		return nil
	}

	d.summary = Summarize(hosts, *stats)
	d.failures = 0
	d.lastErr = ""
	d.updatedAt = time.Now()
	return nil
}

// Snapshot returns a copy of the current state
func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	summary := d.summary
	summary.Hosts = append([]types.EsxiHost(nil), d.summary.Hosts...)
	return DashboardSnapshot{
		DashboardSummary:    summary,
		Open:                d.open,
		Stale:               d.failures > 0,
		ConsecutiveFailures: d.failures,
		LastError:           d.lastErr,
		UpdatedAt:           d.updatedAt,
	}
}

func (d *Dashboard) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = d.Refresh(ctx)
		}
	}
}
