// Package session tracks remote play sessions. Every save namespace has at
// most one writer: a second connection for the same namespace is refused
// until the first one releases its lease.
package session

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ID uniquely identifies a connection (e.g., one SSH session).
type ID string

var (
	// ErrNamespaceBusy is returned when another session holds the namespace.
	ErrNamespaceBusy = errors.New("session: namespace already in use")

	// ErrServerFull is returned when the session limit is reached.
	ErrServerFull = errors.New("session: too many active sessions")
)

// Lease grants a session exclusive write access to a save namespace.
type Lease struct {
	Namespace string
	Session   ID
	User      string
	Since     time.Time

	reg  *Registry
	once sync.Once
}

// Release returns the namespace to the registry.
// Safe to call multiple times.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.reg.release(l)
	})
}

// Info is a read-only view of an active lease.
type Info struct {
	Namespace string
	Session   ID
	User      string
	Since     time.Time
}

// Registry hands out namespace leases.
// Thread-safe for concurrent access.
type Registry struct {
	mu          sync.Mutex
	maxSessions int // 0 means unlimited
	now         func() time.Time
	byNamespace map[string]*Lease
	bySession   map[ID]*Lease
}

// NewRegistry creates a registry. maxSessions <= 0 disables the limit.
func NewRegistry(maxSessions int) *Registry {
	return &Registry{
		maxSessions: maxSessions,
		now:         time.Now,
		byNamespace: make(map[string]*Lease),
		bySession:   make(map[ID]*Lease),
	}
}

// Acquire leases namespace ns to session id.
func (r *Registry) Acquire(ns string, id ID, user string) (*Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byNamespace[ns]; taken {
		return nil, ErrNamespaceBusy
	}
	if r.maxSessions > 0 && len(r.bySession) >= r.maxSessions {
		return nil, ErrServerFull
	}

	l := &Lease{
		Namespace: ns,
		Session:   id,
		User:      user,
		Since:     r.now(),
		reg:       r,
	}
	r.byNamespace[ns] = l
	r.bySession[id] = l
	return l, nil
}

func (r *Registry) release(l *Lease) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byNamespace[l.Namespace]; ok && cur == l {
		delete(r.byNamespace, l.Namespace)
	}
	if cur, ok := r.bySession[l.Session]; ok && cur == l {
		delete(r.bySession, l.Session)
	}
}

// Get retrieves the lease held by a session.
func (r *Registry) Get(id ID) (*Lease, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.bySession[id]
	return l, ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bySession)
}

// Active lists the current leases ordered by namespace.
func (r *Registry) Active() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Info, 0, len(r.byNamespace))
	for _, l := range r.byNamespace {
		out = append(out, Info{Namespace: l.Namespace, Session: l.Session, User: l.User, Since: l.Since})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Namespace < out[j].Namespace
	})
	return out
}

// Namespace maps a remote user name to a save namespace. Anything outside
// [a-z0-9_-] is replaced; an empty name becomes "guest".
func Namespace(user string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(user)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= 32 {
			break
		}
	}
	if b.Len() == 0 {
		return "guest"
	}
	return b.String()
}
