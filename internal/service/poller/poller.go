// Package poller keeps a detail view fresh by re-fetching the selected
// entity on a fixed delay.
//
// A Coordinator is either idle or polling one entity. Every scheduled tick
// carries the generation it was armed under; selecting, re-arming or
// stopping bumps the generation, so a tick from an older session is dropped
// both before it fetches and before it applies. At most one timer is
// pending per Coordinator.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

const DefaultInterval = 2 * time.Second

// FetchFunc loads the detail for id.
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// ApplyFunc receives fresh detail for the still-selected entity. It runs
// with the Coordinator locked: it must not block or call back into the
// Coordinator.
type ApplyFunc[T any] func(id string, v T)

// StopReason says why polling went idle on its own.
type StopReason string

const (
	StoppedTerminal StopReason = "terminal"
	StoppedFailure  StopReason = "failure"
)

type Options[T any] struct {
	// Interval between the end of one fetch and the next. Defaults to 2s.
	Interval time.Duration
	// MaxRetries is how many consecutive failed ticks are tolerated before
	// polling stops. Zero stops on the first failure.
	MaxRetries int
	// Terminal reports whether polling should stop after applying v.
	Terminal func(v T) bool
	// OnStop is told when polling stops by itself. Same rules as ApplyFunc.
	OnStop func(id string, reason StopReason, err error)
	// View labels logs and metrics.
	View string
}

type Coordinator[T any] struct {
	ctx   context.Context
	clock clock.Clock
	log   logger.Logger
	fetch FetchFunc[T]
	apply ApplyFunc[T]
	opts  Options[T]

	mu       sync.Mutex
	selected string
	gen      uint64
	active   bool
	timer    *clock.Timer
	cancel   context.CancelFunc
	failures int
}

// New returns an idle Coordinator. ctx bounds every fetch it makes.
func New[T any](ctx context.Context, clk clock.Clock, log logger.Logger, fetch FetchFunc[T], apply ApplyFunc[T], opts Options[T]) *Coordinator[T] {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.View == "" {
		opts.View = "detail"
	}
	return &Coordinator[T]{
		ctx:   ctx,
		clock: clk,
		log:   log,
		fetch: fetch,
		apply: apply,
		opts:  opts,
	}
}

// Select tears down the current session and starts polling id. The first
// tick fires one interval later: loading the detail right away is the
// caller's job. An empty id only tears down.
func (c *Coordinator[T]) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.selected = id
	if id == "" {
		return
	}
	c.startLocked()
}

// Rearm resumes polling the current selection after it went idle, e.g. when
// a ticket is moved out of a terminal status or after a failed tick. It is
// a no-op while polling or with nothing selected.
func (c *Coordinator[T]) Rearm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == "" {
		return types.ErrNoSelection
	}
	if c.active {
		return nil
	}
	c.teardownLocked()
	c.startLocked()
	return nil
}

// Pause goes idle on a terminal status the caller learned about outside a
// tick, such as after its own status change. The selection is kept so Rearm
// can resume. It is a no-op unless id is the active selection.
func (c *Coordinator[T]) Pause(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || id == "" || id != c.selected {
		return
	}
	metrics.RecordPollTick(c.opts.View, metrics.PollTerminal)
	c.log.Info(c.logCtx(id, types.ActionPollStopped), "entity moved to a terminal status, polling stopped")
	c.idleLocked(id, StoppedTerminal, nil)
}

// Stop cancels polling and forgets the selection.
func (c *Coordinator[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.selected = ""
}

func (c *Coordinator[T]) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Coordinator[T]) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Coordinator[T]) startLocked() {
	c.active = true
	c.failures = 0
	metrics.PollSessionsActive.WithLabelValues(c.opts.View).Inc()
	c.log.Debug(c.logCtx(c.selected, types.ActionPollStarted), "polling started", "interval", c.opts.Interval.String())
	c.armLocked(c.gen)
}

// teardownLocked invalidates every outstanding tick and aborts an in-flight
// fetch.
func (c *Coordinator[T]) teardownLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.active {
		c.active = false
		metrics.PollSessionsActive.WithLabelValues(c.opts.View).Dec()
	}
}

func (c *Coordinator[T]) armLocked(gen uint64) {
	c.timer = c.clock.AfterFunc(c.opts.Interval, func() { c.tick(gen) })
}

func (c *Coordinator[T]) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		metrics.RecordPollTick(c.opts.View, metrics.PollStale)
		return
	}
	id := c.selected
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.timer = nil
	c.mu.Unlock()

	v, err := c.fetch(wrap.WithEntityID(ctx, id), id)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || id != c.selected {
		metrics.RecordPollTick(c.opts.View, metrics.PollStale)
		c.log.Debug(c.logCtx(id, types.ActionPollStaleTick), "dropped stale poll result")
		return
	}
	c.cancel = nil

	if err != nil {
		metrics.RecordPollTick(c.opts.View, metrics.PollFailed)
		c.failures++
		if c.failures <= c.opts.MaxRetries {
			c.log.Warn(c.logCtx(id, types.ActionPollTickFailed), "poll tick failed, retrying", "attempt", c.failures, "error", err)
			c.armLocked(gen)
			return
		}
		c.log.Warn(c.logCtx(id, types.ActionPollStopped), "poll tick failed, polling stopped", "error", err)
		c.idleLocked(id, StoppedFailure, err)
		return
	}

	c.failures = 0
	c.apply(id, v)

	if c.opts.Terminal != nil && c.opts.Terminal(v) {
		metrics.RecordPollTick(c.opts.View, metrics.PollTerminal)
		c.log.Info(c.logCtx(id, types.ActionPollStopped), "entity reached a terminal status, polling stopped")
		c.idleLocked(id, StoppedTerminal, nil)
		return
	}

	metrics.RecordPollTick(c.opts.View, metrics.PollApplied)
	c.armLocked(gen)
}

// idleLocked stops polling but keeps the selection, so Rearm can resume it.
func (c *Coordinator[T]) idleLocked(id string, reason StopReason, err error) {
	c.teardownLocked()
	if c.opts.OnStop != nil {
		c.opts.OnStop(id, reason, err)
	}
}

func (c *Coordinator[T]) logCtx(id, action string) context.Context {
	ctx := wrap.WithEntityID(c.ctx, id)
	return wrap.WithAction(ctx, action)
}
