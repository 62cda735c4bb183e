package polling

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/config"
	"github.com/sirupsen/logrus"
)

// Config holds the cadence settings of a Controller
type Config struct {
	// BaseMinutes is the normal refresh interval in Unit steps
	BaseMinutes int
	// Options lists the accepted values for BaseMinutes
	Options      []int
	FastInterval time.Duration
	FastWindow   time.Duration
	// Unit is the length of one "minute"; zero means time.Minute
	Unit time.Duration
	// OnChange, if set, is called from the Run goroutine every time the
	// effective interval is recomputed
	OnChange func(interval time.Duration, fast bool)
}

// ConfigFromConsole builds a polling configuration from the console settings
func ConfigFromConsole(cc config.ConsoleConfig) Config {
	return Config{
		BaseMinutes:  cc.RefreshMinutes,
		Options:      slices.Clone(cc.RefreshOptions),
		FastInterval: cc.FastInterval,
		FastWindow:   cc.FastWindow,
		Unit:         time.Minute,
	}
}

// Controller drives a periodic refresh whose cadence shortens for a fixed
// window after a long running job is submitted. Run owns the ticker and the
// expiry timer; the other methods only change state and signal Run.
type Controller struct {
	mu        sync.Mutex
	cfg       Config
	base      int
	fastUntil time.Time
	restart   bool
	changed   chan struct{}
	logger    *logrus.Logger
}

// NewController creates a controller. It does not tick until Run is called.
func NewController(cfg Config, logger *logrus.Logger) (*Controller, error) {
	if cfg.Unit == 0 {
		cfg.Unit = time.Minute
	}
	if cfg.FastInterval <= 0 || cfg.FastWindow <= 0 {
		return nil, fmt.Errorf("fast interval and fast window must be positive")
	}
	if len(cfg.Options) > 0 && !slices.Contains(cfg.Options, cfg.BaseMinutes) {
		return nil, fmt.Errorf("base interval %d is not one of %v", cfg.BaseMinutes, cfg.Options)
	}
	if cfg.BaseMinutes <= 0 {
		return nil, fmt.Errorf("base interval must be positive, got %d", cfg.BaseMinutes)
	}

	return &Controller{
		cfg:     cfg,
		base:    cfg.BaseMinutes,
		changed: make(chan struct{}, 1),
		logger:  logger,
	}, nil
}

// Interval returns the effective refresh interval at this moment
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intervalLocked(time.Now())
}

// FastActive reports whether the fast window is still open
func (c *Controller) FastActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Before(c.fastUntil)
}

// FastUntil returns the end of the current fast window, zero if none was set
func (c *Controller) FastUntil() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fastUntil
}

// BaseMinutes returns the configured base interval
func (c *Controller) BaseMinutes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

// TriggerFastWindow opens (or extends) the fast window to now + FastWindow
func (c *Controller) TriggerFastWindow() {
	c.mu.Lock()
	c.fastUntil = time.Now().Add(c.cfg.FastWindow)
	until := c.fastUntil
	c.mu.Unlock()

	c.logger.WithField("until", until.Format(time.RFC3339)).Debug("Fast polling window opened")
	c.signal()
}

// SetBaseMinutes changes the base interval. An open fast window keeps
// priority until it expires.
func (c *Controller) SetBaseMinutes(minutes int) error {
	if len(c.cfg.Options) > 0 && !slices.Contains(c.cfg.Options, minutes) {
		return fmt.Errorf("refresh interval %d is not one of %v", minutes, c.cfg.Options)
	}
	if minutes <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", minutes)
	}

	c.mu.Lock()
	c.base = minutes
	c.mu.Unlock()

	c.signal()
	return nil
}

// Reset restarts the current interval from now, so the next tick comes one
// full interval after a refresh that happened outside Run
func (c *Controller) Reset() {
	c.mu.Lock()
	c.restart = true
	c.mu.Unlock()

	c.signal()
}

// Options returns the accepted base intervals
func (c *Controller) Options() []int {
	return slices.Clone(c.cfg.Options)
}

func (c *Controller) intervalLocked(now time.Time) time.Duration {
	if now.Before(c.fastUntil) {
		return c.cfg.FastInterval
	}
	return time.Duration(c.base) * c.cfg.Unit
}

func (c *Controller) signal() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Run calls tick on every interval until ctx is done. tick runs on the Run
// goroutine, so a slow tick delays the next one instead of overlapping it.
func (c *Controller) Run(ctx context.Context, tick func(context.Context)) {
	var (
		ticker   *time.Ticker
		expiry   *time.Timer
		interval time.Duration
	)

	stop := func() {
		if ticker != nil {
			ticker.Stop()
		}
		if expiry != nil {
			expiry.Stop()
			expiry = nil
		}
	}
	defer stop()

	rebuild := func() {
		c.mu.Lock()
		now := time.Now()
		next := c.intervalLocked(now)
		remaining := c.fastUntil.Sub(now)
		restart := c.restart
		c.restart = false
		c.mu.Unlock()

		if expiry != nil {
			expiry.Stop()
			expiry = nil
		}
		if remaining > 0 {
			expiry = time.NewTimer(remaining)
		}

		if ticker == nil || next != interval {
			if ticker != nil {
				ticker.Stop()
			}
			ticker = time.NewTicker(next)
			c.logger.WithFields(logrus.Fields{
				"previous": interval,
				"interval": next,
				"fast":     remaining > 0,
			}).Debug("Polling interval changed")
			interval = next
		} else if restart {
			ticker.Reset(interval)
		}

		if c.cfg.OnChange != nil {
			c.cfg.OnChange(interval, remaining > 0)
		}
	}

	rebuild()

	for {
		var expiryC <-chan time.Time
		if expiry != nil {
			expiryC = expiry.C
		}

		select {
		case <-ctx.Done():
			return
		case <-c.changed:
			rebuild()
		case <-expiryC:
			expiry = nil
			rebuild()
		case <-ticker.C:
			tick(ctx)
		}
	}
}
