// Package cloudsync mirrors encoded saves to a remote store. Transfers run
// off the tick goroutine; their results are handed back over a channel and
// applied by the engine at the start of the next tick.
package cloudsync

import (
	"context"
	"sync"
)

// Progress is the comparable part of a save used by the conflict policy.
type Progress struct {
	TotalEarned float64 `json:"total_earned"`
	TickCount   int     `json:"tick_count"`
}

// Ahead reports whether p represents strictly more progress than o.
func (p Progress) Ahead(o Progress) bool {
	if p.TotalEarned != o.TotalEarned {
		return p.TotalEarned > o.TotalEarned
	}
	return p.TickCount > o.TickCount
}

// Snapshot is one remote save.
type Snapshot struct {
	Progress Progress `json:"progress"`
	Data     []byte   `json:"data"` // save.Encode output
	SavedAt  int64    `json:"saved_at"`
	Revision int64    `json:"-"`
}

// Transport moves snapshots to and from a remote store.
type Transport interface {
	// Pull returns the newest snapshot of a namespace, or nil if none exists.
	Pull(ctx context.Context, namespace string) (*Snapshot, error)
	// Push stores a snapshot and returns its remote revision.
	Push(ctx context.Context, namespace string, snap Snapshot) (int64, error)
}

// MemoryTransport keeps snapshots in memory. Used by tests and offline play.
type MemoryTransport struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
	rev   int64
}

// NewMemoryTransport creates an empty in-memory transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{snaps: make(map[string]Snapshot)}
}

// Pull implements Transport.
func (m *MemoryTransport) Pull(ctx context.Context, namespace string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[namespace]
	if !ok {
		return nil, nil
	}
	s.Data = append([]byte(nil), s.Data...)
	return &s, nil
}

// Push implements Transport.
func (m *MemoryTransport) Push(ctx context.Context, namespace string, snap Snapshot) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rev++
	snap.Revision = m.rev
	snap.Data = append([]byte(nil), snap.Data...)
	m.snaps[namespace] = snap
	return m.rev, nil
}

var _ Transport = (*MemoryTransport)(nil)
