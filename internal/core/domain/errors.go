package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidSession is returned when a session path does not name an open session.
	ErrInvalidSession = zerr.New("invalid session")

	// ErrSessionBusy is returned when a structural mutation is attempted while another is in flight.
	ErrSessionBusy = zerr.New("session is busy")

	// ErrSessionClosed is returned by operations on a session that has been closed.
	ErrSessionClosed = zerr.New("session is closed")

	// ErrRepoNotFound is returned when a repository id is not registered.
	ErrRepoNotFound = zerr.New("repository not found")

	// ErrRepoAlreadyLoaded is returned when a repository is loaded into the same sack twice.
	ErrRepoAlreadyLoaded = zerr.New("repository already loaded")

	// ErrUnknownOption is returned when a configuration option name is not recognized.
	ErrUnknownOption = zerr.New("unknown configuration option")

	// ErrInvalidOptionValue is returned when a configuration value cannot be parsed for its option type.
	ErrInvalidOptionValue = zerr.New("invalid configuration option value")

	// ErrUnknownAttribute is returned when a listing requests an attribute that is not supported.
	ErrUnknownAttribute = zerr.New("unknown attribute")

	// ErrInvalidReldep is returned when a dependency expression cannot be parsed.
	ErrInvalidReldep = zerr.New("invalid dependency expression")

	// ErrInvalidReference is returned when a query, reldep or list outlives the sack it refers to.
	ErrInvalidReference = zerr.New("reference to released package sack")

	// ErrUnsatisfiedRequest is returned when a goal cannot be resolved.
	ErrUnsatisfiedRequest = zerr.New("request cannot be satisfied")

	// ErrGoalNotResolved is returned when a transaction is requested before a successful resolve.
	ErrGoalNotResolved = zerr.New("goal has not been resolved")

	// ErrTransactionFailed is returned when applying a transaction plan fails.
	ErrTransactionFailed = zerr.New("transaction failed")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMetadataReadFailed is returned when repository metadata cannot be read.
	ErrMetadataReadFailed = zerr.New("failed to read repository metadata")

	// ErrMetadataWriteFailed is returned when repository metadata cannot be written.
	ErrMetadataWriteFailed = zerr.New("failed to write repository metadata")

	// ErrRPMDBFailed is returned when the installed package database cannot be read or updated.
	ErrRPMDBFailed = zerr.New("installed package database failure")

	// ErrDaemonSpawnFailed is returned when the background daemon cannot be started.
	ErrDaemonSpawnFailed = zerr.New("failed to spawn daemon")

	// ErrDaemonUnavailable is returned when the daemon does not answer.
	ErrDaemonUnavailable = zerr.New("daemon is not running")
)
