package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/polling"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// VMBackend is the part of the backend the VM list talks to
type VMBackend interface {
	ListVMs(ctx context.Context, params types.VMListParams) (*types.PageResult[types.VirtualMachine], error)
	PowerAction(ctx context.Context, id string, action types.VMPowerAction) (*types.AsyncTaskResponse, error)
	CloneVM(ctx context.Context, id string, req types.CloneRequest) (*types.AsyncTaskResponse, error)
	InstallTools(ctx context.Context, id string, req types.InstallToolsRequest) (*types.AsyncTaskResponse, error)
	UpdateVM(ctx context.Context, id string, req types.UpdateVMRequest) (*types.VirtualMachine, error)
	CreateSnapshot(ctx context.Context, id string, req types.SnapshotCreateRequest) (*types.AsyncTaskResponse, error)
	RevertSnapshot(ctx context.Context, id, snapshotID string) (*types.AsyncTaskResponse, error)
	SyncHosts(ctx context.Context, hostID *int) (*types.ActionResult, error)
}

// VMListConfig configures a VMList
type VMListConfig struct {
	PageSize         int
	SearchDebounce   time.Duration
	SyncRefreshDelay time.Duration
	Polling          polling.Config
}

// VMFilter is the query the list is currently showing
type VMFilter struct {
	Keyword  string `json:"keyword"`
	HostID   *int   `json:"host_id,omitempty"`
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// FilterUpdate changes several filter fields at once. Nil fields are left
// as they are. HostID 0 clears the host filter.
type FilterUpdate struct {
	KeywordInput  *string `json:"keyword_input,omitempty"`
	KeywordSubmit *string `json:"keyword_submit,omitempty"`
	HostID        *int    `json:"host_id,omitempty"`
	Status        *string `json:"status,omitempty"`
	Page          *int    `json:"page,omitempty"`
	PageSize      *int    `json:"page_size,omitempty"`
}

// VMListSnapshot is a copy of the VM list state
type VMListSnapshot struct {
	Open                bool                   `json:"open"`
	Loading             bool                   `json:"loading"`
	KeywordInput        string                 `json:"keyword_input"`
	Filter              VMFilter               `json:"filter"`
	Items               []types.VirtualMachine `json:"items"`
	Total               int                    `json:"total"`
	TotalPages          int                    `json:"total_pages"`
	RefreshMinutes      int                    `json:"refresh_minutes"`
	RefreshOptions      []int                  `json:"refresh_options"`
	IntervalSeconds     float64                `json:"interval_seconds"`
	FastPolling         bool                   `json:"fast_polling"`
	FastPollingUntil    *time.Time             `json:"fast_polling_until,omitempty"`
	Stale               bool                   `json:"stale"`
	ConsecutiveFailures int                    `json:"consecutive_failures"`
	LastError           string                 `json:"last_error,omitempty"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// VMList is the filtered, paged VM inventory. It refetches whenever the
// query changes, on every polling tick and on demand. Submitting a long
// running action opens the controller's fast polling window.
type VMList struct {
	backend  VMBackend
	cfg      VMListConfig
	logger   *logrus.Logger
	observer Observer
	poller   *polling.Controller
	keyword  *debouncer

	mu           sync.Mutex
	open         bool
	loading      bool
	keywordInput string
	filter       VMFilter
	items        []types.VirtualMachine
	total        int
	failures     int
	lastErr      string
	updatedAt    time.Time

	guard     requestGuard
	loopCtx   context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	syncTimer *time.Timer
}

// NewVMList creates a closed VM list
func NewVMList(b VMBackend, cfg VMListConfig, logger *logrus.Logger, observer Observer) (*VMList, error) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = 500 * time.Millisecond
	}
	if observer == nil {
		observer = nopObserver{}
	}

	l := &VMList{
		backend:  b,
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		filter:   VMFilter{Page: 1, PageSize: cfg.PageSize},
	}

	pcfg := cfg.Polling
	onChange := pcfg.OnChange
	pcfg.OnChange = func(interval time.Duration, fast bool) {
		observer.FastWindowChanged(ViewVMs, fast)
		if onChange != nil {
			onChange(interval, fast)
		}
	}
	poller, err := polling.NewController(pcfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create VM list poller: %w", err)
	}
	l.poller = poller
	l.keyword = newDebouncer(cfg.SearchDebounce, l.promoteKeyword)
	return l, nil
}

// Open starts polling and loads the current page
func (l *VMList) Open(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel == nil {
		l.loopCtx, l.cancel = context.WithCancel(context.WithoutCancel(ctx))
		l.done = make(chan struct{})
		go func(ctx context.Context, done chan struct{}) {
			defer close(done)
			l.poller.Run(ctx, func(ctx context.Context) {
				_ = l.fetch(ctx)
			})
		}(l.loopCtx, l.done)
	}
	l.open = true
	l.items = nil
	l.total = 0
	l.failures = 0
	l.lastErr = ""
	l.mu.Unlock()

	return l.fetch(ctx)
}

// Close stops polling and every pending timer
func (l *VMList) Close() {
	l.keyword.Stop()

	l.mu.Lock()
	l.open = false
	l.loading = false
	if l.syncTimer != nil {
		l.syncTimer.Stop()
		l.syncTimer = nil
	}
	cancel, done := l.cancel, l.done
	l.cancel, l.done, l.loopCtx = nil, nil, nil
	l.mu.Unlock()

	l.guard.invalidate()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Refresh refetches the current page
func (l *VMList) Refresh(ctx context.Context) error {
	return l.fetch(ctx)
}

// SetKeywordInput records live search input. It becomes the keyword filter
// once no further input arrives for the debounce delay.
func (l *VMList) SetKeywordInput(value string) {
	l.mu.Lock()
	l.keywordInput = value
	l.mu.Unlock()
	l.keyword.Push(value)
}

// SubmitKeyword promotes value to the keyword filter immediately
func (l *VMList) SubmitKeyword(ctx context.Context, value string) error {
	return l.Apply(ctx, FilterUpdate{KeywordSubmit: &value})
}

// SetHost filters by host; nil shows all hosts
func (l *VMList) SetHost(ctx context.Context, hostID *int) error {
	id := 0
	if hostID != nil {
		id = *hostID
	}
	return l.Apply(ctx, FilterUpdate{HostID: &id})
}

// SetStatus filters by power state; "" shows all
func (l *VMList) SetStatus(ctx context.Context, status string) error {
	return l.Apply(ctx, FilterUpdate{Status: &status})
}

// SetPage jumps to page, clamped to the known page range
func (l *VMList) SetPage(ctx context.Context, page int) error {
	return l.Apply(ctx, FilterUpdate{Page: &page})
}

// SetPageSize changes the page size and returns to the first page
func (l *VMList) SetPageSize(ctx context.Context, size int) error {
	return l.Apply(ctx, FilterUpdate{PageSize: &size})
}

// NextPage moves one page forward if there is one
func (l *VMList) NextPage(ctx context.Context) error {
	l.mu.Lock()
	page := l.filter.Page + 1
	l.mu.Unlock()
	return l.SetPage(ctx, page)
}

// PrevPage moves one page back if there is one
func (l *VMList) PrevPage(ctx context.Context) error {
	l.mu.Lock()
	page := l.filter.Page - 1
	l.mu.Unlock()
	return l.SetPage(ctx, page)
}

// Apply changes the filter and refetches once if anything changed. Any
// change of keyword, host, status or page size returns to page 1.
func (l *VMList) Apply(ctx context.Context, u FilterUpdate) error {
	vErr := &ValidationError{}
	if u.Status != nil && !types.ValidPowerStateFilter(*u.Status) {
		vErr.add("status", fmt.Sprintf("must be poweredOn, poweredOff or suspended, got %q", *u.Status))
	}
	if u.PageSize != nil && (*u.PageSize < 1 || *u.PageSize > 500) {
		vErr.add("page_size", "must be between 1 and 500")
	}
	if u.HostID != nil && *u.HostID < 0 {
		vErr.add("host_id", "must not be negative")
	}
	if err := vErr.orNil(); err != nil {
		return err
	}

	if u.KeywordSubmit != nil {
		l.keyword.Stop()
	} else if u.KeywordInput != nil {
		l.SetKeywordInput(*u.KeywordInput)
	}

	l.mu.Lock()
	before := l.filter
	next := l.filter

	if u.Page != nil {
		next.Page = clampPage(*u.Page, l.total, next.PageSize)
	}

	reset := false
	if u.KeywordSubmit != nil {
		l.keywordInput = *u.KeywordSubmit
		if *u.KeywordSubmit != next.Keyword {
			next.Keyword = *u.KeywordSubmit
			reset = true
		}
	}
	if u.HostID != nil {
		var hostID *int
		if *u.HostID > 0 {
			id := *u.HostID
			hostID = &id
		}
		if !sameHost(hostID, next.HostID) {
			next.HostID = hostID
			reset = true
		}
	}
	if u.Status != nil && *u.Status != next.Status {
		next.Status = *u.Status
		reset = true
	}
	if u.PageSize != nil && *u.PageSize != next.PageSize {
		next.PageSize = *u.PageSize
		reset = true
	}
	if reset {
		next.Page = 1
	}

	changed := !sameFilter(before, next)
	l.filter = next
	open := l.open
	l.mu.Unlock()

	if !changed || !open {
		return nil
	}
	l.poller.Reset()
	return l.fetch(ctx)
}

func (l *VMList) promoteKeyword(value string) {
	l.mu.Lock()
	if value == l.filter.Keyword {
		l.mu.Unlock()
		return
	}
	l.filter.Keyword = value
	l.filter.Page = 1
	open, ctx := l.open, l.loopCtx
	l.mu.Unlock()

	if open && ctx != nil {
		l.poller.Reset()
		_ = l.fetch(ctx)
	}
}

// SetRefreshMinutes changes the base polling interval
func (l *VMList) SetRefreshMinutes(minutes int) error {
	if err := l.poller.SetBaseMinutes(minutes); err != nil {
		vErr := &ValidationError{}
		vErr.add("minutes", err.Error())
		return vErr
	}
	return nil
}

// Power submits a power operation
func (l *VMList) Power(ctx context.Context, id string, action types.VMPowerAction) (*types.AsyncTaskResponse, error) {
	if _, err := types.ParsePowerAction(string(action)); err != nil {
		vErr := &ValidationError{}
		vErr.add("action", err.Error())
		return nil, vErr
	}

	resp, err := l.backend.PowerAction(ctx, id, action)
	l.observer.ActionSubmitted(submission(ViewVMs, "power:"+string(action), id, resp, err))
	if err != nil {
		return nil, err
	}
	l.submitted(ctx)
	return resp, nil
}

// Clone submits the clone form
func (l *VMList) Clone(ctx context.Context, form *CloneForm) (*types.AsyncTaskResponse, error) {
	req, err := form.Request()
	if err != nil {
		return nil, err
	}

	resp, err := l.backend.CloneVM(ctx, form.Source.ID, req)
	l.observer.ActionSubmitted(submission(ViewVMs, "clone", form.Source.ID, resp, err))
	if err != nil {
		return nil, err
	}
	l.submitted(ctx)
	return resp, nil
}

// InstallTools submits the install-tools form
func (l *VMList) InstallTools(ctx context.Context, form *InstallToolsForm) (*types.AsyncTaskResponse, error) {
	req, err := form.Request()
	if err != nil {
		return nil, err
	}

	resp, err := l.backend.InstallTools(ctx, form.VMID, req)
	l.observer.ActionSubmitted(submission(ViewVMs, "install-tools", form.VMID, resp, err))
	if err != nil {
		return nil, err
	}
	l.submitted(ctx)
	return resp, nil
}

// CreateSnapshot submits a snapshot of a VM
func (l *VMList) CreateSnapshot(ctx context.Context, id string, req types.SnapshotCreateRequest) (*types.AsyncTaskResponse, error) {
	if err := validateSnapshot(req); err != nil {
		return nil, err
	}

	resp, err := l.backend.CreateSnapshot(ctx, id, req)
	l.observer.ActionSubmitted(submission(ViewVMs, "snapshot", id, resp, err))
	if err != nil {
		return nil, err
	}
	l.submitted(ctx)
	return resp, nil
}

// RevertSnapshot reverts a VM to one of its snapshots
func (l *VMList) RevertSnapshot(ctx context.Context, id, snapshotID string) (*types.AsyncTaskResponse, error) {
	resp, err := l.backend.RevertSnapshot(ctx, id, snapshotID)
	l.observer.ActionSubmitted(submission(ViewVMs, "revert", id+"@"+snapshotID, resp, err))
	if err != nil {
		return nil, err
	}
	l.submitted(ctx)
	return resp, nil
}

// Update renames a VM or changes its annotation, then refetches
func (l *VMList) Update(ctx context.Context, id string, req types.UpdateVMRequest) (*types.VirtualMachine, error) {
	if err := validateVMUpdate(req); err != nil {
		return nil, err
	}

	vm, err := l.backend.UpdateVM(ctx, id, req)
	if err != nil {
		return nil, err
	}
	l.refreshIfOpen(ctx)
	return vm, nil
}

// Sync asks the backend to resync all hosts and refetches after a delay
func (l *VMList) Sync(ctx context.Context) (*types.ActionResult, error) {
	result, err := l.backend.SyncHosts(ctx, nil)
	l.observer.ActionSubmitted(Submission{View: ViewVMs, Action: "sync", Err: err, At: time.Now()})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.open && l.loopCtx != nil {
		if l.syncTimer != nil {
			l.syncTimer.Stop()
		}
		loopCtx := l.loopCtx
		l.syncTimer = time.AfterFunc(l.cfg.SyncRefreshDelay, func() {
			_ = l.fetch(loopCtx)
		})
	}
	l.mu.Unlock()
	return result, nil
}

// Snapshot returns a copy of the current state
func (l *VMList) Snapshot() VMListSnapshot {
	interval := l.poller.Interval()
	fast := l.poller.FastActive()
	var until *time.Time
	if fast {
		u := l.poller.FastUntil()
		until = &u
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]types.VirtualMachine, len(l.items))
	copy(items, l.items)
	filter := l.filter
	if filter.HostID != nil {
		id := *filter.HostID
		filter.HostID = &id
	}

	return VMListSnapshot{
		Open:                l.open,
		Loading:             l.loading,
		KeywordInput:        l.keywordInput,
		Filter:              filter,
		Items:               items,
		Total:               l.total,
		TotalPages:          TotalPages(l.total, l.filter.PageSize),
		RefreshMinutes:      l.poller.BaseMinutes(),
		RefreshOptions:      l.poller.Options(),
		IntervalSeconds:     interval.Seconds(),
		FastPolling:         fast,
		FastPollingUntil:    until,
		Stale:               l.failures > 0,
		ConsecutiveFailures: l.failures,
		LastError:           l.lastErr,
		UpdatedAt:           l.updatedAt,
	}
}

// submitted opens the fast polling window and shows the effect of the
// action as soon as the backend reports it
func (l *VMList) submitted(ctx context.Context) {
	l.poller.TriggerFastWindow()
	l.refreshIfOpen(ctx)
}

func (l *VMList) refreshIfOpen(ctx context.Context) {
	l.mu.Lock()
	open := l.open
	l.mu.Unlock()
	if open {
		_ = l.fetch(ctx)
	}
}

func (l *VMList) fetch(ctx context.Context) error {
	l.mu.Lock()
	if !l.open {
		l.mu.Unlock()
		return nil
	}
	params := types.VMListParams{
		HostID:   l.filter.HostID,
		Keyword:  l.filter.Keyword,
		Status:   l.filter.Status,
		Page:     l.filter.Page,
		PageSize: l.filter.PageSize,
	}
	l.loading = true
	l.mu.Unlock()

	reqCtx, seq := l.guard.begin(ctx)
	start := time.Now()
	page, err := l.backend.ListVMs(reqCtx, params)
	if !backend.IsCanceled(err) {
		l.observer.FetchCompleted(ViewVMs, time.Since(start), err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.guard.current(seq) {
		l.loading = false
	}
	if err != nil {
		if backend.IsCanceled(err) || !l.guard.current(seq) || !l.open {
			return nil
		}
		l.failures++
		l.lastErr = backend.Message(err, err.Error())
		l.logger.WithError(err).WithFields(logrus.Fields{
			"page":     params.Page,
			"failures": l.failures,
		}).Warn("Failed to refresh VM list")
		return err
	}
	if !l.open || !l.guard.accept(seq) {
		return nil
	}

	l.items = page.Items
	l.total = page.Total
	l.failures = 0
	l.lastErr = ""
	l.updatedAt = time.Now()
	return nil
}

// TotalPages returns the number of pages for total rows, at least 1
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func clampPage(page, total, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, pageSize); page > last {
		return last
	}
	return page
}

func sameHost(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameFilter(a, b VMFilter) bool {
	return a.Keyword == b.Keyword &&
		sameHost(a.HostID, b.HostID) &&
		a.Status == b.Status &&
		a.Page == b.Page &&
		a.PageSize == b.PageSize
}
