package console

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRequestGuardOrdering(t *testing.T) {
	var g requestGuard

	ctx1, seq1 := g.begin(context.Background())
	ctx2, seq2 := g.begin(context.Background())

	if ctx1.Err() == nil {
		t.Fatal("starting a new fetch should cancel the previous one")
	}
	if ctx2.Err() != nil {
		t.Fatal("latest fetch canceled")
	}
	if g.current(seq1) || !g.current(seq2) {
		t.Fatal("current() mismatch")
	}

	if !g.accept(seq2) {
		t.Fatal("latest response rejected")
	}
	if g.accept(seq1) {
		t.Fatal("older response applied after a newer one")
	}

	_, seq3 := g.begin(context.Background())
	g.invalidate()
	if g.accept(seq3) {
		t.Fatal("response accepted after invalidate")
	}
}

func TestDebouncerDeliversLastValue(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Value
	d := newDebouncer(20*time.Millisecond, func(v string) {
		calls.Add(1)
		last.Store(v)
	})

	d.Push("a")
	d.Push("ab")
	d.Push("abc")
	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })
	time.Sleep(40 * time.Millisecond)

	if calls.Load() != 1 || last.Load().(string) != "abc" {
		t.Fatalf("calls=%d last=%v", calls.Load(), last.Load())
	}

	d.Push("x")
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 1 {
		t.Fatal("stopped debouncer delivered a value")
	}
}
