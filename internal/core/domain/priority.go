package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Priority ranks the source of a configuration value. A value can only be
// replaced by a write of equal or higher priority.
type Priority int

const (
	// PriorityEmpty marks an option that has never been given a value.
	PriorityEmpty Priority = 0
	// PriorityDefault is the priority of built-in defaults.
	PriorityDefault Priority = 10
	// PriorityMainConfig is the priority of values read from the main config file.
	PriorityMainConfig Priority = 20
	// PriorityAutomaticConfig is the priority of values computed from the environment.
	PriorityAutomaticConfig Priority = 30
	// PriorityRepoConfig is the priority of values read from repository files.
	PriorityRepoConfig Priority = 40
	// PriorityCommandLine is the priority of values given on the command line.
	PriorityCommandLine Priority = 70
	// PriorityRuntime is the priority of values set while the session runs.
	PriorityRuntime Priority = 80
)

var priorityNames = map[Priority]string{
	PriorityEmpty:           "empty",
	PriorityDefault:         "default",
	PriorityMainConfig:      "mainconfig",
	PriorityAutomaticConfig: "automaticconfig",
	PriorityRepoConfig:      "repoconfig",
	PriorityCommandLine:     "commandline",
	PriorityRuntime:         "runtime",
}

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePriority maps a priority name back to its value.
func ParsePriority(name string) (Priority, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return PriorityEmpty, zerr.With(zerr.New("unknown priority"), "priority", name)
}
