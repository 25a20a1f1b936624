// Package app implements the application layer for rpmd.
package app

import (
	"bufio"
	"cmp"
	"context"
	"io"
	"os"
	"strings"

	"go.trai.ch/rpmd/internal/adapters/config"
	"go.trai.ch/rpmd/internal/adapters/daemon"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/session"
	"go.trai.ch/zerr"
)

// SettingsLoader reads daemon settings.
type SettingsLoader interface {
	Load(path string) (*config.Settings, error)
}

// App represents the main application logic.
type App struct {
	loader  SettingsLoader
	logger  ports.Logger
	deps    session.Deps
	connect daemon.ConnectorFactory
	out     io.Writer
	in      io.Reader
}

// New creates a new App instance.
func New(loader SettingsLoader, log ports.Logger, deps session.Deps, connect daemon.ConnectorFactory) *App {
	return &App{
		loader:  loader,
		logger:  log,
		deps:    deps,
		connect: connect,
		out:     os.Stdout,
		in:      os.Stdin,
	}
}

// WithOutput redirects command output to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithInput sets the reader confirmation prompts read from.
func (a *App) WithInput(r io.Reader) *App {
	a.in = r
	return a
}

// ClientOptions are shared by every command talking to the daemon.
type ClientOptions struct {
	// SettingsPath is the daemon settings file. Empty selects the default.
	SettingsPath string
	// Socket overrides the socket from the settings.
	Socket string
	// Session holds the options the session is opened with.
	Session map[string]any
	// EnableRepos and DisableRepos toggle repositories for this command only.
	EnableRepos  []string
	DisableRepos []string
	// JSON prints machine-readable output.
	JSON bool
}

// connector resolves the socket and returns a connector for it.
func (a *App) connector(opts ClientOptions) (ports.DaemonConnector, error) {
	settings, err := a.loader.Load(opts.SettingsPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}
	var args []string
	if opts.SettingsPath != "" {
		args = append(args, "--config", opts.SettingsPath)
	}
	return a.connect(cmp.Or(opts.Socket, settings.Socket), args...)
}

// withSession opens a session for the duration of fn and closes it afterwards.
func (a *App) withSession(
	ctx context.Context,
	opts ClientOptions,
	fn func(client ports.DaemonClient, path string) error,
) (err error) {
	connector, err := a.connector(opts)
	if err != nil {
		return err
	}
	client, err := connector.Connect(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to connect to daemon")
	}
	defer func() {
		_ = client.Close()
	}()

	path, err := client.OpenSession(ctx, opts.Session)
	if err != nil {
		return zerr.Wrap(err, "failed to open session")
	}
	a.logger.Debug("opened session " + path)
	defer func() {
		if _, closeErr := client.CloseSession(context.WithoutCancel(ctx), path); closeErr != nil && err == nil {
			err = zerr.Wrap(closeErr, "failed to close session")
		}
	}()

	if len(opts.EnableRepos) > 0 {
		if _, err := client.EnableRepos(ctx, path, opts.EnableRepos); err != nil {
			return err
		}
	}
	if len(opts.DisableRepos) > 0 {
		if _, err := client.DisableRepos(ctx, path, opts.DisableRepos); err != nil {
			return err
		}
	}
	return fn(client, path)
}

// confirm asks question and reports whether the answer was yes.
func (a *App) confirm(question string) bool {
	_, _ = io.WriteString(a.out, question+" [y/N]: ")
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		_, _ = io.WriteString(a.out, "\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
