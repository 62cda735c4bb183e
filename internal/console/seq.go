package console

import (
	"context"
	"sync"
)

// requestGuard orders the responses of one stream of list fetches. Every
// fetch gets a sequence number and a context; starting a new fetch cancels
// the previous one, and a response is applied only if nothing newer was
// applied before it.
type requestGuard struct {
	mu      sync.Mutex
	seq     uint64
	applied uint64
	cancel  context.CancelFunc
}

func (g *requestGuard) begin(parent context.Context) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	g.seq++
	return ctx, g.seq
}

// accept marks seq as applied if it is newer than the last applied response
func (g *requestGuard) accept(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// current reports whether seq is still the latest started fetch
func (g *requestGuard) current(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.seq
}

// invalidate cancels the in-flight fetch and discards any response started
// before this call
func (g *requestGuard) invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.applied = g.seq
}
