package dbx

import (
	"context"
	"fmt"
	"sync"
)

// Change is one buffered write. It runs against the transaction handle of
// the unit of work and reports how many rows it touched.
type Change func(ctx context.Context, tx DBTX) (int64, error)

// Exec builds a Change running a single statement.
func Exec(query string, args ...any) Change {
	return func(ctx context.Context, tx DBTX) (int64, error) {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		return RowsAffected(res), nil
	}
}

// ChangeSet collects pending writes from all repositories attached to one
// unit of work. It is safe for concurrent use.
type ChangeSet struct {
	mu      sync.Mutex
	pending []Change
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Add enqueues changes in order. Nil changes are ignored.
func (c *ChangeSet) Add(changes ...Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range changes {
		if ch != nil {
			c.pending = append(c.pending, ch)
		}
	}
}

func (c *ChangeSet) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Pending returns a snapshot of the queued changes.
func (c *ChangeSet) Pending() []Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Change(nil), c.pending...)
}

// Clear drops the first n queued changes. Changes enqueued after a Pending
// snapshot was taken survive.
func (c *ChangeSet) Clear(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n >= len(c.pending) {
		c.pending = nil
		return
	}
	c.pending = append([]Change(nil), c.pending[n:]...)
}

// Reset drops every queued change.
func (c *ChangeSet) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}
