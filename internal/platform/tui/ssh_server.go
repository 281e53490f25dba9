package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/session"
	"github.com/vovakirdan/netops/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.netops/host_key.
	HostKeyPath string

	// DBPath is the path to the shared save database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxSessions limits concurrent players; 0 means unlimited.
	MaxSessions int

	Balance  config.Balance
	Campaign config.Campaign
	Logger   *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.netops/netops.db",
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 64,
		Balance:     config.DefaultBalance(),
		Campaign:    config.DefaultCampaign(),
	}
}

// SSHServer wraps a Wish SSH server. Every user plays their own network,
// saved under a namespace derived from the SSH user name.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	leases   *session.Registry
	logger   *log.Logger
	mu       sync.Mutex
	sessions map[string]*remotePlayer // ssh session id -> player
}

// remotePlayer is the per-connection game.
type remotePlayer struct {
	lease    *session.Lease
	engine   *engine.Engine
	notifier *Notifier
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "netops-ssh",
		})
	}

	// Remote saves need storage; unlike local play there is no fallback.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open save database: %w", err)
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		leases:   session.NewRegistry(cfg.MaxSessions),
		logger:   logger,
		sessions: make(map[string]*remotePlayer),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			store.Close()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".netops", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		store.Close()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging wraps the lease, which wraps
	// the Bubble Tea program.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.leaseMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// leaseMiddleware gives the session exclusive use of the user's namespace
// for its lifetime and saves the game when the program ends.
func (s *SSHServer) leaseMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		ns := session.Namespace(sshSession.User())
		sid := sshSession.Context().SessionID()

		lease, err := s.leases.Acquire(ns, session.ID(sid), sshSession.User())
		if err != nil {
			s.logger.Warn("session refused", "user", sshSession.User(), "namespace", ns, "err", err)
			wish.Fatalln(sshSession, err.Error())
			return
		}
		defer lease.Release()

		player := s.newPlayer(lease)
		s.mu.Lock()
		s.sessions[sid] = player
		s.mu.Unlock()

		next(sshSession)

		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
		if err := saveOnExit(player.engine); err != nil {
			s.logger.Warn("cannot save session", "namespace", ns, "err", err)
		}
		player.engine.Flush()
	}
}

// newPlayer builds the engine for a lease and loads its save.
func (s *SSHServer) newPlayer(lease *session.Lease) *remotePlayer {
	slots := s.store.Slots(lease.Namespace)
	logger := s.logger.With("namespace", lease.Namespace)
	notes := NewNotifier()
	eng := engine.New(engine.Options{
		Balance:  &s.config.Balance,
		Campaign: &s.config.Campaign,
		Seed:     time.Now().UnixNano(),
		Logger:   logger,
		Host:     notes,
		Feedback: notes,
		Saves:    save.NewManager(slots, logger),
		Runs:     slots,
	})
	if _, err := eng.Load(); err != nil {
		logger.Warn("cannot load save, starting fresh", "err", err)
	}
	return &remotePlayer{lease: lease, engine: eng, notifier: notes}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	s.mu.Lock()
	player, ok := s.sessions[sshSession.Context().SessionID()]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	cfg := core.DefaultConfig()
	cfg.TickInterval = s.config.Balance.Tick.Interval()
	if pty.Window.Width > 0 {
		cfg.ScreenW = pty.Window.Width
		cfg.ScreenH = pty.Window.Height
	}

	model := NewApp(AppConfig{
		Engine:    player.engine,
		Notifier:  player.notifier,
		Store:     s.store,
		Namespace: player.lease.Namespace,
		Runtime:   cfg,
		Logger:    s.logger,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.leases.Count(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...", "active", s.leases.Active())
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
