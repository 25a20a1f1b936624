package domain

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// AppName is the directory name used under the user's runtime and config dirs.
	AppName = "rpmd"

	// SocketFileName is the name of the daemon socket.
	SocketFileName = "rpmd.sock"

	// PIDFileName is the name of the daemon PID file.
	PIDFileName = "rpmd.pid"

	// DaemonLogFileName is the name of the daemon log file.
	DaemonLogFileName = "daemon.log"

	// SettingsFileName is the name of the daemon settings file.
	SettingsFileName = "rpmd.yaml"

	// RPMDBRelPath is the location of the installed database inside an installroot.
	RPMDBRelPath = "var/lib/rpmd/rpmdb.sqlite"

	// PrimaryDBRelPath is the location of the primary database inside a repository.
	PrimaryDBRelPath = "repodata/primary.sqlite"

	// SessionManagerPath is the root object path of the service.
	SessionManagerPath = "/org/rpm/rpmd/v0"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the daemon socket (rw-------).
	SocketPerm = 0o600

	// SocketEnv overrides the daemon socket path.
	SocketEnv = "RPMD_SOCKET"

	// DefaultIdleTimeout is how long the daemon stays up without requests.
	DefaultIdleTimeout = 30 * time.Minute
)

// DefaultRuntimeDir returns the directory holding the socket and PID file.
// It prefers $XDG_RUNTIME_DIR and falls back to the temp dir.
func DefaultRuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), AppName+"-"+uidString())
}

// DefaultDaemonSocketPath returns the socket path, honoring RPMD_SOCKET.
func DefaultDaemonSocketPath() string {
	if p := os.Getenv(SocketEnv); p != "" {
		return p
	}
	return filepath.Join(DefaultRuntimeDir(), SocketFileName)
}

// DaemonPIDPath returns the PID file next to the given socket.
func DaemonPIDPath(socketPath string) string {
	return filepath.Join(filepath.Dir(socketPath), PIDFileName)
}

// DaemonLogPath returns the log file next to the given socket.
func DaemonLogPath(socketPath string) string {
	return filepath.Join(filepath.Dir(socketPath), DaemonLogFileName)
}

// DefaultSettingsPath returns the daemon settings file under the user config dir.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", SettingsFileName)
	}
	return filepath.Join(dir, AppName, SettingsFileName)
}

// RPMDBPath returns the installed database path for installroot.
func RPMDBPath(installroot string) string {
	return filepath.Join(installroot, RPMDBRelPath)
}

func uidString() string {
	return strconv.Itoa(os.Getuid())
}
