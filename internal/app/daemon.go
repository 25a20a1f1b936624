package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.trai.ch/rpmd/internal/adapters/daemon"
	"go.trai.ch/rpmd/internal/adapters/logger"
	"go.trai.ch/rpmd/internal/adapters/telemetry"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/session"
	"go.trai.ch/rpmd/internal/ui/style"
	"go.trai.ch/zerr"
)

// startupBuffer holds daemon log lines written before the log file is open.
const startupBuffer = 256

// DaemonOptions configure the daemon process.
type DaemonOptions struct {
	SettingsPath string
	Socket       string
}

// configurable is implemented by loggers whose format can change at runtime.
type configurable interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// ServeDaemon runs the daemon until ctx is canceled, a Shutdown request
// arrives or it stays idle for the configured timeout.
func (a *App) ServeDaemon(ctx context.Context, opts DaemonOptions) error {
	router := logger.NewRouter()
	if console, ok := a.logger.(ports.LogSink); ok {
		router.Add(console)
	}
	early := logger.NewMemoryBuffer(startupBuffer)
	router.Add(early)

	settings, err := a.loader.Load(opts.SettingsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}
	if c, ok := a.logger.(configurable); ok {
		c.SetJSON(settings.LogJSON)
		c.SetLevel(settings.LogLevel)
	}
	socket := cmp.Or(opts.Socket, settings.Socket)
	router.Debug("starting daemon for " + socket)

	logFile, err := a.attachLogFile(router, early, settings.LogFile)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() {
			_ = logFile.Close()
		}()
	}

	provider := telemetry.NewSDKProvider(telemetry.NewLogProcessor(router))
	otel.SetTracerProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()

	deps := a.deps
	deps.Logger = router
	deps.SessionLogger = func(path string) ports.Logger {
		r := logger.NewRouter("session", path)
		r.Add(router)
		return r
	}

	manager := session.NewManager(deps, settings.SessionDefaults)
	lifecycle := daemon.NewLifecycle(settings.IdleTimeout)
	server := daemon.NewServer(lifecycle, manager, router, socket)

	router.Info(fmt.Sprintf("daemon listening on %s (idle timeout %s)", socket, settings.IdleTimeout))
	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return zerr.Wrap(err, "daemon failed")
	}
	router.Info("daemon stopped")
	return nil
}

// attachLogFile swaps the startup buffer for a stream into path, replaying
// what was buffered so far. An empty path just drops the buffer.
func (a *App) attachLogFile(router *logger.Router, early *logger.MemoryBuffer, path string) (*os.File, error) {
	index := router.Len() - 1
	if _, err := router.Release(index); err != nil {
		return nil, err
	}
	if path == "" {
		early.Clear()
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create log directory"), "path", path)
	}
	//nolint:gosec // Path comes from the daemon settings.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open log file"), "path", path)
	}
	sink := logger.NewStreamSink(f)
	early.ReplayTo(sink)
	router.Add(sink)
	return f, nil
}

// DaemonStatus prints whether the daemon runs and, if so, its state.
func (a *App) DaemonStatus(ctx context.Context, opts ClientOptions) error {
	connector, err := a.connector(opts)
	if err != nil {
		return err
	}
	if !connector.IsRunning() {
		_, _ = fmt.Fprintf(a.out, "%s daemon is not running\n", style.Circle)
		return nil
	}

	client, err := connector.Connect(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to connect to daemon")
	}
	defer func() {
		_ = client.Close()
	}()

	status, err := client.Status(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to query daemon status")
	}
	if opts.JSON {
		return writeJSON(a.out, map[string]any{
			"running":        status.Running,
			"pid":            status.PID,
			"uptime":         status.Uptime.Round(time.Second).String(),
			"last_activity":  status.LastActivity.Format(time.RFC3339),
			"idle_remaining": status.IdleRemaining.Round(time.Second).String(),
			"sessions":       status.Sessions,
		})
	}

	_, _ = fmt.Fprintf(a.out, "%s daemon is running (pid %d)\n", style.Dot, status.PID)
	_, _ = fmt.Fprintf(a.out, "  uptime:          %s\n", status.Uptime.Round(time.Second))
	_, _ = fmt.Fprintf(a.out, "  last activity:   %s\n", status.LastActivity.Format(time.RFC3339))
	_, _ = fmt.Fprintf(a.out, "  idle shutdown:   %s\n", status.IdleRemaining.Round(time.Second))
	_, _ = fmt.Fprintf(a.out, "  open sessions:   %d\n", status.Sessions)
	return nil
}

// StopDaemon asks a running daemon to shut down.
func (a *App) StopDaemon(ctx context.Context, opts ClientOptions) error {
	connector, err := a.connector(opts)
	if err != nil {
		return err
	}
	if !connector.IsRunning() {
		_, _ = fmt.Fprintf(a.out, "%s daemon is not running\n", style.Circle)
		return nil
	}

	client, err := connector.Connect(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to connect to daemon")
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "failed to stop daemon")
	}
	_, _ = fmt.Fprintf(a.out, "%s daemon stopped\n", style.Check)
	return nil
}
