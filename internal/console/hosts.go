package console

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// HostBackend is the part of the backend the host list talks to
type HostBackend interface {
	ListHosts(ctx context.Context) ([]types.EsxiHost, error)
	AddHost(ctx context.Context, req types.AddHostRequest) (*types.EsxiHost, error)
	UpdateHost(ctx context.Context, id int, req types.UpdateHostRequest) (*types.EsxiHost, error)
	DeleteHost(ctx context.Context, id int) error
	SyncHosts(ctx context.Context, hostID *int) (*types.ActionResult, error)
	ReorderHosts(ctx context.Context, hostIDs []int) (*types.ActionResult, error)
}

// HostSortKey is a column the host list can be sorted by
type HostSortKey string

const (
	SortByIP           HostSortKey = "ip"
	SortByVMCount      HostSortKey = "vm_count"
	SortByCPU          HostSortKey = "cpu"
	SortByMemory       HostSortKey = "memory"
	SortByStorageUsage HostSortKey = "storage_usage"
	SortByDescription  HostSortKey = "description"
	SortByVersion      HostSortKey = "version"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseHostSortKey validates a sort column name
func ParseHostSortKey(s string) (HostSortKey, error) {
	switch k := HostSortKey(s); k {
	case SortByIP, SortByVMCount, SortByCPU, SortByMemory, SortByStorageUsage, SortByDescription, SortByVersion:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ProbeResult reports the outcome of a connection test
type ProbeResult struct {
	Success bool   `json:"success"`
	Version string `json:"version,omitempty"`
	Message string `json:"message"`
}

// HostListSnapshot is a copy of the host list state
type HostListSnapshot struct {
	Open                bool             `json:"open"`
	Loading             bool             `json:"loading"`
	Items               []types.EsxiHost `json:"items"`
	SortKey             HostSortKey      `json:"sort_key,omitempty"`
	SortDirection       SortDirection    `json:"sort_direction,omitempty"`
	Syncing             []int            `json:"syncing"`
	Stale               bool             `json:"stale"`
	ConsecutiveFailures int              `json:"consecutive_failures"`
	LastError           string           `json:"last_error,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// HostList manages the ESXi hosts known to the backend
type HostList struct {
	backend   HostBackend
	syncDelay time.Duration
	logger    *logrus.Logger
	observer  Observer

	mu        sync.Mutex
	open      bool
	loading   bool
	items     []types.EsxiHost
	sortKey   HostSortKey
	sortDir   SortDirection
	syncing   map[int]bool
	failures  int
	lastErr   string
	updatedAt time.Time

	guard  requestGuard
	ctx    context.Context
	cancel context.CancelFunc
	timers map[*time.Timer]struct{}
}

// NewHostList creates a closed host list. syncDelay is how long to wait
// after a sync request before reloading.
func NewHostList(b HostBackend, syncDelay time.Duration, logger *logrus.Logger, observer Observer) *HostList {
	if observer == nil {
		observer = nopObserver{}
	}
	return &HostList{
		backend:   b,
		syncDelay: syncDelay,
		logger:    logger,
		observer:  observer,
		syncing:   map[int]bool{},
		timers:    map[*time.Timer]struct{}{},
	}
}

// Open loads the host list
func (h *HostList) Open(ctx context.Context) error {
	h.mu.Lock()
	if h.cancel == nil {
		h.ctx, h.cancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	h.open = true
	h.mu.Unlock()

	return h.Refresh(ctx)
}

// Close cancels pending delayed refreshes and in-flight requests
func (h *HostList) Close() {
	h.mu.Lock()
	h.open = false
	h.loading = false
	for t := range h.timers {
		t.Stop()
	}
	h.timers = map[*time.Timer]struct{}{}
	h.syncing = map[int]bool{}
	cancel := h.cancel
	h.cancel, h.ctx = nil, nil
	h.mu.Unlock()

	h.guard.invalidate()
	if cancel != nil {
		cancel()
	}
}

// Refresh reloads hosts in backend order, then reapplies the active sort
func (h *HostList) Refresh(ctx context.Context) error {
	h.mu.Lock()
	if !h.open {
		h.mu.Unlock()
		return nil
	}
	h.loading = true
	h.mu.Unlock()

	reqCtx, seq := h.guard.begin(ctx)
	start := time.Now()
	hosts, err := h.backend.ListHosts(reqCtx)
	if !backend.IsCanceled(err) {
		h.observer.FetchCompleted(ViewHosts, time.Since(start), err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.guard.current(seq) {
		h.loading = false
	}
	if err != nil {
		if backend.IsCanceled(err) || !h.guard.current(seq) || !h.open {
			return nil
		}
		h.failures++
		h.lastErr = backend.Message(err, err.Error())
		h.logger.WithError(err).Warn("Failed to load hosts")
		return err
	}
	if !h.open || !h.guard.accept(seq) {
		return nil
	}

	h.items = hosts
	if h.sortKey != "" {
		sortHosts(h.items, h.sortKey, h.sortDir)
	}
	h.failures = 0
	h.lastErr = ""
	h.updatedAt = time.Now()
	return nil
}

// Probe tests a host's credentials without registering it
func (h *HostList) Probe(ctx context.Context, req types.AddHostRequest) (*ProbeResult, error) {
	if err := validateHost(req); err != nil {
		return nil, err
	}
	req.ProbeOnly = true

	host, err := h.backend.AddHost(ctx, req)
	if err != nil {
		if backend.IsTransport(err) {
			return nil, err
		}
		return &ProbeResult{Success: false, Message: backend.Message(err, "Connection failed")}, nil
	}

	version := host.Version
	if version == "" {
		version = "Unknown Version"
	}
	return &ProbeResult{Success: true, Version: host.Version, Message: "Connected: " + version}, nil
}

// Add registers a host and reloads the list
func (h *HostList) Add(ctx context.Context, req types.AddHostRequest) (*types.EsxiHost, error) {
	if err := validateHost(req); err != nil {
		return nil, err
	}
	req.ProbeOnly = false

	host, err := h.backend.AddHost(ctx, req)
	h.observer.ActionSubmitted(Submission{View: ViewHosts, Action: "add", Target: req.IP, Err: err, At: time.Now()})
	if err != nil {
		return nil, err
	}
	h.refreshIfOpen(ctx)
	return host, nil
}

// Update changes a host and reloads the list. An empty password keeps the
// stored one.
func (h *HostList) Update(ctx context.Context, id int, req types.UpdateHostRequest) (*types.EsxiHost, error) {
	host, err := h.backend.UpdateHost(ctx, id, req)
	h.observer.ActionSubmitted(Submission{View: ViewHosts, Action: "update", Target: fmt.Sprint(id), Err: err, At: time.Now()})
	if err != nil {
		return nil, err
	}
	h.refreshIfOpen(ctx)
	return host, nil
}

// Delete removes a host and reloads the list
func (h *HostList) Delete(ctx context.Context, id int) error {
	err := h.backend.DeleteHost(ctx, id)
	h.observer.ActionSubmitted(Submission{View: ViewHosts, Action: "delete", Target: fmt.Sprint(id), Err: err, At: time.Now()})
	if err != nil {
		return err
	}
	h.refreshIfOpen(ctx)
	return nil
}

// Sync asks the backend to resync one host (or all when hostID is nil)
// and reloads the list after the sync delay
func (h *HostList) Sync(ctx context.Context, hostID *int) (*types.ActionResult, error) {
	key := 0
	target := "all"
	if hostID != nil {
		key = *hostID
		target = fmt.Sprint(*hostID)
	}

	h.mu.Lock()
	h.syncing[key] = true
	h.mu.Unlock()

	result, err := h.backend.SyncHosts(ctx, hostID)
	h.observer.ActionSubmitted(Submission{View: ViewHosts, Action: "sync", Target: target, Err: err, At: time.Now()})

	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		delete(h.syncing, key)
		return nil, err
	}
	if !h.open || h.ctx == nil {
		delete(h.syncing, key)
		return result, nil
	}

	lifeCtx := h.ctx
	var t *time.Timer
	t = time.AfterFunc(h.syncDelay, func() {
		h.mu.Lock()
		_, pending := h.timers[t]
		delete(h.timers, t)
		delete(h.syncing, key)
		h.mu.Unlock()
		if pending {
			_ = h.Refresh(lifeCtx)
		}
	})
	h.timers[t] = struct{}{}
	return result, nil
}

// SortBy sorts the displayed hosts. The first selection of a key sorts
// descending; selecting the same key again flips the direction.
func (h *HostList) SortBy(key HostSortKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dir := SortDesc
	if h.sortKey == key && h.sortDir == SortDesc {
		dir = SortAsc
	}
	h.sortKey = key
	h.sortDir = dir
	sortHosts(h.items, key, dir)
}

// SetOrder rearranges the displayed hosts to ids, which must name every
// displayed host exactly once. It clears the column sort.
func (h *HostList) SetOrder(ids []int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	vErr := &ValidationError{}
	if len(ids) != len(h.items) {
		vErr.add("host_ids", fmt.Sprintf("must list all %d hosts", len(h.items)))
		return vErr
	}
	byID := make(map[int]types.EsxiHost, len(h.items))
	for _, host := range h.items {
		byID[host.ID] = host
	}
	ordered := make([]types.EsxiHost, 0, len(ids))
	for _, id := range ids {
		host, ok := byID[id]
		if !ok {
			vErr.add("host_ids", fmt.Sprintf("unknown or repeated host %d", id))
			return vErr
		}
		delete(byID, id)
		ordered = append(ordered, host)
	}

	h.items = ordered
	h.sortKey = ""
	h.sortDir = ""
	return nil
}

// SaveOrder stores the displayed order in the backend
func (h *HostList) SaveOrder(ctx context.Context) (*types.ActionResult, error) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.items))
	for _, host := range h.items {
		ids = append(ids, host.ID)
	}
	h.mu.Unlock()

	if len(ids) == 0 {
		return &types.ActionResult{Success: true, Message: "Nothing to reorder"}, nil
	}

	result, err := h.backend.ReorderHosts(ctx, ids)
	h.observer.ActionSubmitted(Submission{View: ViewHosts, Action: "reorder", Err: err, At: time.Now()})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Snapshot returns a copy of the current state
func (h *HostList) Snapshot() HostListSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]types.EsxiHost, len(h.items))
	copy(items, h.items)
	syncing := make([]int, 0, len(h.syncing))
	for id := range h.syncing {
		syncing = append(syncing, id)
	}
	sort.Ints(syncing)

	return HostListSnapshot{
		Open:                h.open,
		Loading:             h.loading,
		Items:               items,
		SortKey:             h.sortKey,
		SortDirection:       h.sortDir,
		Syncing:             syncing,
		Stale:               h.failures > 0,
		ConsecutiveFailures: h.failures,
		LastError:           h.lastErr,
		UpdatedAt:           h.updatedAt,
	}
}

func (h *HostList) refreshIfOpen(ctx context.Context) {
	h.mu.Lock()
	open := h.open
	h.mu.Unlock()
	if open {
		_ = h.Refresh(ctx)
	}
}

func sortHosts(hosts []types.EsxiHost, key HostSortKey, dir SortDirection) {
	less := func(a, b types.EsxiHost) bool {
		switch key {
		case SortByIP:
			return a.IP < b.IP
		case SortByVMCount:
			return a.VMCount < b.VMCount
		case SortByCPU:
			return a.CPUUsage < b.CPUUsage
		case SortByMemory:
			return a.MemoryUsage < b.MemoryUsage
		case SortByStorageUsage:
			return a.StorageUsage() < b.StorageUsage()
		case SortByDescription:
			return a.Description < b.Description
		case SortByVersion:
			return a.Version < b.Version
		}
		return false
	}

	sort.SliceStable(hosts, func(i, j int) bool {
		if dir == SortAsc {
			return less(hosts[i], hosts[j])
		}
		return less(hosts[j], hosts[i])
	})
}
