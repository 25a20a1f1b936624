package daemon

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
)

var _ ports.DaemonConnector = (*Connector)(nil)

// Connector implements ports.DaemonConnector.
type Connector struct {
	executablePath string
	socketPath     string
	// args are passed to the spawned daemon after "daemon serve".
	args []string
}

// NewConnector creates a connector for the daemon at socketPath. A spawned
// daemon runs this executable with "daemon serve" followed by args.
func NewConnector(socketPath string, args ...string) (*Connector, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return &Connector{executablePath: exe, socketPath: socketPath, args: args}, nil
}

// SocketPath returns the socket the connector dials.
func (c *Connector) SocketPath() string {
	return c.socketPath
}

// Dial returns a client without checking that the daemon answers.
func (c *Connector) Dial() (ports.DaemonClient, error) {
	return Dial(c.socketPath)
}

// Connect returns a client, spawning the daemon if necessary.
func (c *Connector) Connect(ctx context.Context) (ports.DaemonClient, error) {
	client, err := Dial(c.socketPath)
	if err == nil {
		if pingErr := client.Ping(ctx); pingErr == nil {
			return client, nil
		}
		_ = client.Close()
	}

	if spawnErr := c.Spawn(ctx); spawnErr != nil {
		return nil, spawnErr
	}

	client, err = Dial(c.socketPath)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}

	if pingErr := client.Ping(ctx); pingErr != nil {
		_ = client.Close()
		return nil, zerr.Wrap(pingErr, "daemon started but is not responsive")
	}

	return client, nil
}

// IsRunning checks if the daemon is running and responsive.
func (c *Connector) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return c.isRunningWithCtx(ctx)
}

func (c *Connector) isRunningWithCtx(ctx context.Context) bool {
	client, err := Dial(c.socketPath)
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	return client.Ping(ctx) == nil
}

// Spawn starts the daemon process in the background.
func (c *Connector) Spawn(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	logPath := domain.DaemonLogPath(c.socketPath)
	//nolint:gosec // G304: logPath is derived from the socket path
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open daemon log")
	}

	args := append([]string{"daemon", "serve", "--socket", c.socketPath}, c.args...)
	//nolint:gosec // G204: executablePath is our own binary
	cmd := exec.Command(c.executablePath, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(zerr.Wrap(domain.ErrDaemonSpawnFailed, err.Error()), "executable", c.executablePath)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return c.waitForDaemonStartup(ctx)
}

// waitForDaemonStartup waits for the daemon to become responsive.
func (c *Connector) waitForDaemonStartup(ctx context.Context) error {
	start := time.Now()
	for time.Since(start) < maxPollDuration {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.isRunningWithCtx(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrDaemonSpawnFailed, "daemon failed to start within timeout"), "log", domain.DaemonLogPath(c.socketPath))
}
