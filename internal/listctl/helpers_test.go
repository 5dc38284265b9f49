package listctl_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rshade/bistro/internal/listctl"
)

// manualClock fires timers only when Advance is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) listctl.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due timers synchronously, earliest first.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Active returns the number of timers that are neither stopped nor fired.
func (c *manualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeBackend records every query and answers with respond.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []listctl.Query
	respond func(ctx context.Context, q listctl.Query) (listctl.Result[string], error)
}

func newFakeBackend(total, totalPages int) *fakeBackend {
	b := &fakeBackend{}
	b.respond = func(_ context.Context, q listctl.Query) (listctl.Result[string], error) {
		return pageOf(q, total, totalPages), nil
	}
	return b
}

func (b *fakeBackend) fetch(ctx context.Context, q listctl.Query) (listctl.Result[string], error) {
	b.mu.Lock()
	b.calls = append(b.calls, q)
	respond := b.respond
	b.mu.Unlock()
	return respond(ctx, q)
}

func (b *fakeBackend) setRespond(f func(ctx context.Context, q listctl.Query) (listctl.Result[string], error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.respond = f
}

func (b *fakeBackend) Calls() []listctl.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]listctl.Query, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *fakeBackend) Last() listctl.Query {
	calls := b.Calls()
	return calls[len(calls)-1]
}

// pageOf builds a page of labelled items such as "p3-i0".
func pageOf(q listctl.Query, total, totalPages int) listctl.Result[string] {
	items := make([]string, 0, q.Limit)
	for i := range q.Limit {
		items = append(items, fmt.Sprintf("p%d-i%d", q.Page, i))
	}
	return listctl.Result[string]{Items: items, Total: total, TotalPages: totalPages, Page: q.Page}
}
