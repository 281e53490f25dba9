package cloudsync

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Op identifies the kind of transfer a Result belongs to.
type Op int

const (
	OpPull Op = iota
	OpPush
)

func (o Op) String() string {
	if o == OpPush {
		return "push"
	}
	return "pull"
}

// Result is delivered once per finished transfer.
type Result struct {
	Op        Op
	Requested Progress  // Local progress when the transfer was issued
	Snapshot  *Snapshot // Pulled snapshot, nil when the remote is empty
	Revision  int64
	Err       error
}

// Decision is the outcome of comparing a pulled snapshot with local state.
type Decision int

const (
	KeepLocal Decision = iota // Nothing to do
	Adopt                     // Replace local state with the remote snapshot
	Upload                    // Local is newer; push it
)

func (d Decision) String() string {
	switch d {
	case Adopt:
		return "adopt"
	case Upload:
		return "upload"
	default:
		return "keep"
	}
}

// Decide applies the last-writer-wins, never-regress policy to a pull.
// If local progress advanced while the pull was in flight the local state
// wins and is re-uploaded, even when the remote looked newer at request time.
func Decide(local, requested Progress, remote *Snapshot) Decision {
	if remote == nil {
		return Upload
	}
	if local.Ahead(requested) {
		return Upload
	}
	if remote.Progress.Ahead(local) {
		return Adopt
	}
	if local.Ahead(remote.Progress) {
		return Upload
	}
	return KeepLocal
}

// Options configures a Syncer.
type Options struct {
	Namespace     string
	UploadsPerMin float64 // Zero disables throttling
	Timeout       time.Duration
	Logger        *log.Logger
}

// Syncer issues background transfers and queues their results.
type Syncer struct {
	transport Transport
	namespace string
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    *log.Logger

	results chan Result
	wg      sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	pulling bool
}

// NewSyncer creates a syncer over transport.
func NewSyncer(transport Transport, opts Options) *Syncer {
	limit := rate.Inf
	if opts.UploadsPerMin > 0 {
		limit = rate.Limit(opts.UploadsPerMin / 60)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Syncer{
		transport: transport,
		namespace: opts.Namespace,
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   opts.Timeout,
		logger:    opts.Logger,
		results:   make(chan Result, 16),
	}
}

// Push uploads a snapshot in the background. Returns false when throttled
// or closed; a dropped upload is superseded by the next periodic push.
func (s *Syncer) Push(snap Snapshot) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if !s.limiter.Allow() {
		s.mu.Unlock()
		s.logger.Debug("cloud push throttled", "namespace", s.namespace)
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	snap.Data = append([]byte(nil), snap.Data...)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		rev, err := s.transport.Push(ctx, s.namespace, snap)
		s.deliver(Result{Op: OpPush, Requested: snap.Progress, Revision: rev, Err: err})
	}()
	return true
}

// Pull fetches the remote snapshot in the background. Only one pull runs at
// a time; returns false if one is already in flight.
func (s *Syncer) Pull(local Progress) bool {
	s.mu.Lock()
	if s.closed || s.pulling {
		s.mu.Unlock()
		return false
	}
	s.pulling = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		snap, err := s.transport.Pull(ctx, s.namespace)
		s.mu.Lock()
		s.pulling = false
		s.mu.Unlock()
		r := Result{Op: OpPull, Requested: local, Snapshot: snap, Err: err}
		if snap != nil {
			r.Revision = snap.Revision
		}
		s.deliver(r)
	}()
	return true
}

func (s *Syncer) deliver(r Result) {
	if r.Err != nil {
		s.logger.Warn("cloud sync failed", "op", r.Op, "namespace", s.namespace, "err", r.Err)
	}
	select {
	case s.results <- r:
	default:
		s.logger.Warn("cloud sync result dropped", "op", r.Op)
	}
}

// Drain returns every result delivered since the last call without blocking.
func (s *Syncer) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-s.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Wait blocks until every in-flight transfer has delivered its result.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// Close stops accepting transfers and waits for in-flight ones.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
