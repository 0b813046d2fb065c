package undo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"innkeep/shared/failure"
)

// RevertFunc persists the restoration of a snapshot. It runs at most
// once per window, and only when Undo is invoked before expiry.
type RevertFunc[T any] func(ctx context.Context, snapshot T) error

// pendingWindow is the PendingUndo state for one entity. An entity with
// no map entry is Committed.
type pendingWindow[T any] struct {
	snapshot  T
	expiresAt time.Time
	revert    RevertFunc[T]
	timer     *time.Timer
}

// Coordinator tracks at most one open undo window per entity key.
// Opening a window for a key that already has one cancels the prior
// window; its snapshot is discarded and its timer becomes a no-op.
type Coordinator[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*pendingWindow[T]
}

func NewCoordinator[T any](window time.Duration) *Coordinator[T] {
	return &Coordinator[T]{
		window:  window,
		pending: make(map[string]*pendingWindow[T]),
	}
}

// Open starts an undo window with the coordinator's default duration.
func (c *Coordinator[T]) Open(key string, snapshot T, revert RevertFunc[T]) {
	c.OpenFor(key, snapshot, c.window, revert)
}

// OpenFor starts an undo window with an explicit duration. After the
// window elapses the entity is finalized: the snapshot is dropped and
// undo is no longer possible.
func (c *Coordinator[T]) OpenFor(key string, snapshot T, window time.Duration, revert RevertFunc[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prior, ok := c.pending[key]; ok {
		prior.timer.Stop()

		delete(c.pending, key)

		log.Debug().Str("key", key).Msg("replaced pending undo window")
	}

	entry := &pendingWindow[T]{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(window),
		revert:    revert,
	}

	entry.timer = time.AfterFunc(window, func() {
		c.expire(key, entry)
	})

	c.pending[key] = entry
}

// expire finalizes a window when its timer fires. The identity check
// makes a stale timer (cancelled, undone, or replaced) a no-op.
func (c *Coordinator[T]) expire(key string, entry *pendingWindow[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.pending[key]; ok && current == entry {
		delete(c.pending, key)
	}
}

// Undo restores the snapshot for the entity if its window is still
// open. The window is claimed under the lock before revert runs, so a
// concurrent Undo for the same key gets Conflict instead of a second
// revert. When revert fails the window is reopened for the remainder
// of its duration so the caller may retry.
func (c *Coordinator[T]) Undo(ctx context.Context, key string) error {
	c.mu.Lock()
	entry, ok := c.pending[key]
	if ok {
		entry.timer.Stop()

		delete(c.pending, key)
	}
	c.mu.Unlock()

	if !ok {
		return failure.Conflict("no undo window open for this entity") // nolint:wrapcheck
	}

	if err := entry.revert(ctx, entry.snapshot); err != nil {
		c.reopen(key, entry)

		return err
	}

	return nil
}

// reopen puts a claimed window back after a failed revert, unless its
// deadline has passed or a new window took its place meanwhile.
func (c *Coordinator[T]) reopen(key string, entry *pendingWindow[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := time.Until(entry.expiresAt)
	if remaining <= 0 {
		return
	}

	if _, taken := c.pending[key]; taken {
		return
	}

	entry.timer = time.AfterFunc(remaining, func() {
		c.expire(key, entry)
	})

	c.pending[key] = entry
}

// Cancel drops a pending window without reverting.
func (c *Coordinator[T]) Cancel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.pending[key]; ok {
		entry.timer.Stop()

		delete(c.pending, key)
	}
}

// Pending reports whether an undo window is open for the entity.
func (c *Coordinator[T]) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.pending[key]

	return ok
}

// ExpiresAt returns the deadline of the entity's open window, if any.
func (c *Coordinator[T]) ExpiresAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pending[key]
	if !ok {
		return time.Time{}, false
	}

	return entry.expiresAt, true
}
