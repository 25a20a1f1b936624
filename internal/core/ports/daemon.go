package ports

import (
	"context"
	"time"

	"go.trai.ch/rpmd/internal/core/domain"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonStatus represents the current state of the daemon.
type DaemonStatus struct {
	Running       bool
	PID           int
	Uptime        time.Duration
	LastActivity  time.Time
	IdleRemaining time.Duration
	Sessions      int
}

// PackageListOptions selects packages and the attributes reported for them.
type PackageListOptions struct {
	// Attrs lists the package attributes to return besides the id.
	Attrs []string
	// Patterns restricts the result to packages matching any pattern. Empty means all.
	Patterns []string
	// ICase matches patterns case-insensitively.
	ICase bool
	// WithNEVRA, WithProvides, WithFilenames and WithSrc select the forms a pattern may match.
	WithNEVRA     bool
	WithProvides  bool
	WithFilenames bool
	WithSrc       bool
}

// DefaultPackageListOptions returns the options an Rpm.List request gets
// for every flag it leaves out: every pattern form enabled, case-insensitive.
func DefaultPackageListOptions() PackageListOptions {
	return PackageListOptions{
		ICase:         true,
		WithNEVRA:     true,
		WithProvides:  true,
		WithFilenames: true,
		WithSrc:       true,
	}
}

// PlanEntry is one serialized entry of a resolved plan.
type PlanEntry struct {
	Action  domain.TransactionAction
	Package map[string]any
}

// TransactionOptions tunes transaction execution.
type TransactionOptions struct {
	// Test runs the transaction without changing the system.
	Test bool
	// ContinueOnError keeps applying entries after one fails.
	ContinueOnError bool
}

// TransactionEntry is the reported outcome of one plan entry.
type TransactionEntry struct {
	Index   int
	Action  domain.TransactionAction
	Outcome string
	Package map[string]any
	Error   string
}

// DaemonClient defines the interface for communicating with the daemon.
type DaemonClient interface {
	// Ping checks if the daemon is alive and resets the inactivity timer.
	Ping(ctx context.Context) error
	// Status returns the current daemon status.
	Status(ctx context.Context) (*DaemonStatus, error)
	// Shutdown requests a graceful daemon shutdown.
	Shutdown(ctx context.Context) error

	// OpenSession opens a session and returns its path.
	OpenSession(ctx context.Context, options map[string]any) (string, error)
	// CloseSession closes a session. It reports false if the path was not a live session.
	CloseSession(ctx context.Context, path string) (bool, error)

	// ListRepoConf returns the attribute maps of the configured repositories.
	ListRepoConf(ctx context.Context, path string, ids []string) ([]map[string]string, error)
	// GetRepoConf returns the attribute map of one repository.
	GetRepoConf(ctx context.Context, path, id string) (map[string]string, error)
	// EnableRepos enables repositories and returns the ids that changed.
	EnableRepos(ctx context.Context, path string, ids []string) ([]string, error)
	// DisableRepos disables repositories and returns the ids that changed.
	DisableRepos(ctx context.Context, path string, ids []string) ([]string, error)

	// ReadAllRepos loads the session's repositories into its sack.
	ReadAllRepos(ctx context.Context, path string) (bool, error)
	// ListRepos returns loaded repositories with the requested attributes.
	ListRepos(ctx context.Context, path string, attrs, patterns []string) ([]map[string]any, error)
	// ListPackages returns packages in ascending id order.
	ListPackages(ctx context.Context, path string, opts PackageListOptions) ([]map[string]any, error)

	// AddJobs queues goal jobs on the session.
	AddJobs(ctx context.Context, path string, action domain.GoalAction, specs []string, settings domain.GoalJobSettings) error
	// Resolve resolves the session goal into a plan.
	Resolve(ctx context.Context, path string) ([]PlanEntry, error)
	// DoTransaction executes the resolved plan.
	DoTransaction(ctx context.Context, path string, opts TransactionOptions) ([]TransactionEntry, error)

	// Close releases client resources.
	Close() error
}

// DaemonConnector manages daemon lifecycle from the CLI perspective.
type DaemonConnector interface {
	// Connect returns a client to the daemon, spawning it if necessary.
	Connect(ctx context.Context) (DaemonClient, error)
	// IsRunning checks if the daemon process is currently running.
	IsRunning() bool
	// Spawn starts a new daemon process in the background.
	Spawn(ctx context.Context) error
}
