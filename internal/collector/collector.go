// Package collector waits for future events that match a predicate,
// bounded by a match count and/or a deadline.
//
// A Bus fans published events out to every live Collector. A Collector's
// sequence ends without an error when its limit is reached, its deadline
// passes, it is closed, or the caller's context is cancelled; callers that
// need to tell a timeout apart from a match check whether anything was
// produced.
package collector

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

const bufferSize = 16

type Options struct {
	// Limit is the number of matches after which the sequence ends. Zero
	// means unbounded.
	Limit int
	// Timeout ends the sequence once it elapses. Zero means no deadline.
	Timeout time.Duration
}

type Bus[T any] struct {
	clock clockwork.Clock

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Collector[T]
}

func NewBus[T any](c clockwork.Clock) *Bus[T] {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Bus[T]{
		clock: c,
		subs:  make(map[uint64]*Collector[T]),
	}
}

// Publish offers ev to every collector and returns how many accepted it.
// It never blocks: a collector whose buffer is full drops the event.
func (b *Bus[T]) Publish(ev T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	accepted := 0
	for id, c := range b.subs {
		if !c.filter(ev) {
			continue
		}
		select {
		case c.items <- ev:
		default:
			slog.Warn("collector buffer full; dropping event", "collector_id", id)
			continue
		}
		accepted++
		c.accepted++
		if c.limit > 0 && c.accepted >= c.limit {
			b.detachLocked(id)
		}
	}
	return accepted
}

// Collect starts a new sequence. Events published before this call are
// never seen by it.
func (b *Bus[T]) Collect(filter func(T) bool, opts Options) *Collector[T] {
	if filter == nil {
		filter = func(T) bool { return true }
	}
	size := bufferSize
	if opts.Limit > 0 && opts.Limit < size {
		size = opts.Limit
	}
	c := &Collector[T]{
		bus:    b,
		filter: filter,
		limit:  opts.Limit,
		items:  make(chan T, size),
	}
	if opts.Timeout > 0 {
		c.timer = b.clock.NewTimer(opts.Timeout)
	}

	b.mu.Lock()
	b.nextID++
	c.id = b.nextID
	b.subs[c.id] = c
	b.mu.Unlock()
	return c
}

// Len reports the number of live collectors.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus[T]) detachLocked(id uint64) {
	c, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(c.items)
}

type Collector[T any] struct {
	bus    *Bus[T]
	id     uint64
	filter func(T) bool
	limit  int
	timer  clockwork.Timer

	// accepted and items are guarded by bus.mu on the send side.
	accepted int
	items    chan T
	ended    atomic.Bool
}

// Next suspends until the next match. ok is false once the sequence has
// ended for any reason.
func (c *Collector[T]) Next(ctx context.Context) (item T, ok bool) {
	if c.ended.Load() {
		return item, false
	}
	var deadline <-chan time.Time
	if c.timer != nil {
		deadline = c.timer.Chan()
	}

	// Matches that were buffered before the limit closed the channel are
	// still delivered.
	select {
	case item, ok = <-c.items:
		if !ok {
			c.stopTimer()
		}
		return item, ok
	default:
	}

	select {
	case item, ok = <-c.items:
		if !ok {
			c.stopTimer()
		}
		return item, ok
	case <-deadline:
		c.Close()
		return item, false
	case <-ctx.Done():
		c.Close()
		return item, false
	}
}

// Collect drains the sequence into a slice.
func (c *Collector[T]) Collect(ctx context.Context) []T {
	var out []T
	for item := range c.All(ctx) {
		out = append(out, item)
	}
	return out
}

func (c *Collector[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer c.Close()
		for {
			item, ok := c.Next(ctx)
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Close ends the sequence; matches still buffered are discarded.
func (c *Collector[T]) Close() {
	c.ended.Store(true)
	c.stopTimer()
	c.bus.mu.Lock()
	c.bus.detachLocked(c.id)
	c.bus.mu.Unlock()
}

func (c *Collector[T]) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
	}
}
