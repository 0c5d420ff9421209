package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/jh2023at0610/telefondomino/internal/table"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.domino/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Players is the default table size offered in the lobby.
	Players int

	// BotStrategy is the registry ID used for automated seats.
	BotStrategy string

	// BotDelay paces automated seats.
	BotDelay time.Duration
}

// SSHServer wraps a Wish SSH server around a table service.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	svc    *table.Service
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, svc *table.Service, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "domino-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		svc:    svc,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".domino", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	userID := fmt.Sprintf("%s@%s", sshSession.User(), sshSession.RemoteAddr().String())
	model := NewSessionModel(sshSession.Context(), s.svc, s.config, userID, sshSession.User())
	model.width = pty.Window.Width
	model.height = pty.Window.Height

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
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full SSH session flow: lobby -> table.
type SessionModel struct {
	ctx       context.Context
	svc       *table.Service
	config    SSHServerConfig
	userID    string
	session   *table.ChannelSession
	lobby     LobbyModel
	tableView *TableModel
	width     int
	height    int
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(ctx context.Context, svc *table.Service, cfg SSHServerConfig, userID, nickname string) SessionModel {
	sessionID := table.SessionID(fmt.Sprintf("%s-%d", userID, time.Now().UnixNano()))
	session := table.NewChannelSession(sessionID, 64)

	return SessionModel{
		ctx:     ctx,
		svc:     svc,
		config:  cfg,
		userID:  userID,
		session: session,
		lobby:   NewLobbyModel(ctx, svc, session, userID, strings.TrimSpace(nickname), cfg.BotStrategy, cfg.Players),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.lobby.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.tableView != nil {
		return m.updateTable(msg)
	}
	return m.updateLobby(msg)
}

// updateLobby handles updates while the user is being seated.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	if lobby, ok := newLobby.(LobbyModel); ok {
		m.lobby = lobby
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	}

	if seat := m.lobby.Seating(); seat != nil {
		tm := NewTableModel(m.ctx, m.svc, seat.RoomID, m.userID, m.session, Options{
			BotDelay:  m.config.BotDelay,
			DriveBots: seat.DriveBots,
		})
		if m.width > 0 {
			tm.width = m.width
			tm.height = m.height
		}
		m.tableView = &tm
		return m, tea.Batch(cmd, m.tableView.Init())
	}

	return m, cmd
}

// updateTable handles updates while seated at a table.
func (m SessionModel) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.tableView.Update(msg)
	if tm, ok := newModel.(TableModel); ok {
		m.tableView = &tm
	}
	if m.tableView.quitting {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.tableView != nil {
		return m.tableView.View()
	}
	return m.lobby.View()
}
