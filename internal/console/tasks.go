package console

import (
	"context"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// LoadState is the first-page loading state of a view
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
)

// TaskSource lists backend tasks
type TaskSource interface {
	ListTasks(ctx context.Context, params types.TaskListParams) (*types.TaskListResponse, error)
}

// TaskCenterConfig configures a TaskCenter
type TaskCenterConfig struct {
	PageSize        int
	RefreshInterval time.Duration
}

// TaskCenterSnapshot is a copy of the task center state
type TaskCenterSnapshot struct {
	Open                bool         `json:"open"`
	State               LoadState    `json:"state"`
	LoadingMore         bool         `json:"loading_more"`
	Page                int          `json:"page"`
	Items               []types.Task `json:"items"`
	Total               int          `json:"total"`
	HasMore             bool         `json:"has_more"`
	AutoRefresh         bool         `json:"auto_refresh"`
	Stale               bool         `json:"stale"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastError           string       `json:"last_error,omitempty"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// TaskCenter is a paged, newest-first view of backend tasks. While open
// and showing only the first page it refreshes on a fixed interval as long
// as any visible task is still pending or running.
type TaskCenter struct {
	source   TaskSource
	cfg      TaskCenterConfig
	logger   *logrus.Logger
	observer Observer

	mu           sync.Mutex
	open         bool
	state        LoadState
	loadingMore  bool
	page         int
	items        []types.Task
	firstPageLen int
	total        int
	exhausted    bool
	failures     int
	lastErr      string
	updatedAt    time.Time

	first requestGuard
	more  requestGuard

	cancel context.CancelFunc
	done   chan struct{}
	wake   chan struct{}
}

// NewTaskCenter creates a closed task center
func NewTaskCenter(source TaskSource, cfg TaskCenterConfig, logger *logrus.Logger, observer Observer) *TaskCenter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 3 * time.Second
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &TaskCenter{
		source:   source,
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		state:    StateIdle,
		wake:     make(chan struct{}, 1),
	}
}

// Open resets the view to the first page and loads it. Reopening an open
// task center reloads it from scratch.
func (c *TaskCenter) Open(ctx context.Context) error {
	c.mu.Lock()
	c.more.invalidate()
	c.open = true
	c.state = StateLoading
	c.loadingMore = false
	c.page = 1
	c.items = nil
	c.firstPageLen = 0
	c.total = 0
	c.exhausted = false
	c.failures = 0
	c.lastErr = ""
	if c.cancel == nil {
		loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c.cancel = cancel
		c.done = make(chan struct{})
		go c.autoRefresh(loopCtx, c.done)
	}
	c.mu.Unlock()

	return c.loadFirstPage(ctx, true)
}

// Close stops auto refresh and abandons in-flight requests
func (c *TaskCenter) Close() {
	c.mu.Lock()
	c.open = false
	c.state = StateIdle
	c.loadingMore = false
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	c.first.invalidate()
	c.more.invalidate()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Refresh reloads the first page, keeping items loaded beyond it
func (c *TaskCenter) Refresh(ctx context.Context) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return nil
	}
	return c.loadFirstPage(ctx, false)
}

// LoadMore fetches the next page and appends the tasks not already shown.
// An empty page ends the list even when total still counts tasks that were
// inserted ahead of the loaded ones.
func (c *TaskCenter) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.open || c.loadingMore || c.state != StateLoaded || !c.hasMoreLocked() {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.loadingMore = true
	c.mu.Unlock()

	reqCtx, seq := c.more.begin(ctx)
	start := time.Now()
	resp, err := c.source.ListTasks(reqCtx, types.TaskListParams{Page: next, PageSize: c.cfg.PageSize})
	c.report(start, err)

	c.mu.Lock()
	if c.more.current(seq) {
		c.loadingMore = false
	}
	if err != nil {
		defer c.mu.Unlock()
		return c.failLocked(seq, &c.more, "Failed to load more tasks", err)
	}
	if !c.open || !c.more.accept(seq) {
		c.mu.Unlock()
		return nil
	}

	if len(resp.Items) == 0 {
		c.exhausted = true
	} else {
		c.page = next
		c.items = appendUnique(c.items, resp.Items)
	}
	c.total = resp.Total
	c.succeedLocked()
	c.mu.Unlock()

	c.poke()
	return nil
}

// Snapshot returns a copy of the current state
func (c *TaskCenter) Snapshot() TaskCenterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]types.Task, len(c.items))
	copy(items, c.items)
	return TaskCenterSnapshot{
		Open:                c.open,
		State:               c.state,
		LoadingMore:         c.loadingMore,
		Page:                c.page,
		Items:               items,
		Total:               c.total,
		HasMore:             c.hasMoreLocked(),
		AutoRefresh:         c.autoRefreshLocked(),
		Stale:               c.failures > 0,
		ConsecutiveFailures: c.failures,
		LastError:           c.lastErr,
		UpdatedAt:           c.updatedAt,
	}
}

func (c *TaskCenter) loadFirstPage(ctx context.Context, reset bool) error {
	reqCtx, seq := c.first.begin(ctx)
	start := time.Now()
	resp, err := c.source.ListTasks(reqCtx, types.TaskListParams{Page: 1, PageSize: c.cfg.PageSize})
	c.report(start, err)

	c.mu.Lock()
	if err != nil {
		if c.first.current(seq) && c.state == StateLoading {
			c.state = StateLoaded
		}
		defer c.mu.Unlock()
		return c.failLocked(seq, &c.first, "Failed to refresh tasks", err)
	}
	if !c.open || !c.first.accept(seq) {
		c.mu.Unlock()
		return nil
	}

	if reset {
		c.items = append([]types.Task(nil), resp.Items...)
	} else {
		c.items = mergeFirstPage(c.items, c.firstPageLen, resp.Items)
	}
	c.firstPageLen = len(resp.Items)
	if resp.Total != c.total {
		c.exhausted = false
	}
	c.total = resp.Total
	c.state = StateLoaded
	c.succeedLocked()
	c.mu.Unlock()

	c.poke()
	return nil
}

// failLocked records a failed fetch unless it was superseded or abandoned.
// The displayed items are left untouched.
func (c *TaskCenter) failLocked(seq uint64, g *requestGuard, msg string, err error) error {
	if backend.IsCanceled(err) || !g.current(seq) || !c.open {
		return nil
	}
	c.failures++
	c.lastErr = backend.Message(err, err.Error())
	c.logger.WithError(err).WithField("failures", c.failures).Warn(msg)
	return err
}

func (c *TaskCenter) succeedLocked() {
	c.failures = 0
	c.lastErr = ""
	c.updatedAt = time.Now()
}

func (c *TaskCenter) report(start time.Time, err error) {
	if backend.IsCanceled(err) {
		return
	}
	c.observer.FetchCompleted(ViewTasks, time.Since(start), err)
}

func (c *TaskCenter) hasMoreLocked() bool {
	return !c.exhausted && c.total > len(c.items)
}

func (c *TaskCenter) autoRefreshLocked() bool {
	if !c.open || c.page != 1 || c.state != StateLoaded {
		return false
	}
	for _, t := range c.items {
		if t.Status.Active() {
			return true
		}
	}
	return false
}

func (c *TaskCenter) poke() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// autoRefresh keeps a ticker running exactly while auto refresh applies.
// The condition is re-evaluated each time the list changes.
func (c *TaskCenter) autoRefresh(ctx context.Context, done chan struct{}) {
	defer close(done)

	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		c.mu.Lock()
		active := c.autoRefreshLocked()
		c.mu.Unlock()

		var tickC <-chan time.Time
		if active {
			if ticker == nil {
				ticker = time.NewTicker(c.cfg.RefreshInterval)
			}
			tickC = ticker.C
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
		}

		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		case <-tickC:
			_ = c.loadFirstPage(ctx, false)
		}
	}
}

// mergeFirstPage replaces the leading firstLen items with page and keeps
// the rest, dropping anything that moved onto the new first page
func mergeFirstPage(items []types.Task, firstLen int, page []types.Task) []types.Task {
	if firstLen > len(items) {
		firstLen = len(items)
	}
	merged := append([]types.Task(nil), page...)
	return appendUnique(merged, items[firstLen:])
}

// appendUnique appends the tasks of extra whose id is not in items yet
func appendUnique(items []types.Task, extra []types.Task) []types.Task {
	seen := make(map[string]struct{}, len(items)+len(extra))
	for _, t := range items {
		seen[t.ID] = struct{}{}
	}
	for _, t := range extra {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		items = append(items, t)
	}
	return items
}
