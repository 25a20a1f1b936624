package domain

// GoalAction is the kind of request added to a goal.
type GoalAction uint8

const (
	// GoalInstall requests installation of matching packages.
	GoalInstall GoalAction = iota + 1
	// GoalRemove requests removal of matching installed packages.
	GoalRemove
	// GoalReinstall requests reinstallation of matching installed packages.
	GoalReinstall
	// GoalUpgrade requests upgrades of matching installed packages.
	GoalUpgrade
	// GoalDowngrade requests downgrades of matching installed packages.
	GoalDowngrade
)

// String returns the lowercase action name.
func (a GoalAction) String() string {
	switch a {
	case GoalInstall:
		return "install"
	case GoalRemove:
		return "remove"
	case GoalReinstall:
		return "reinstall"
	case GoalUpgrade:
		return "upgrade"
	case GoalDowngrade:
		return "downgrade"
	default:
		return "unknown"
	}
}

// GoalSetting is a tri-state switch whose AUTO value defers to configuration.
type GoalSetting uint8

const (
	// SettingAuto uses the configured default.
	SettingAuto GoalSetting = iota
	// SettingTrue forces the behavior on.
	SettingTrue
	// SettingFalse forces the behavior off.
	SettingFalse
)

// Resolve returns the effective value given the configured default.
func (s GoalSetting) Resolve(def bool) bool {
	switch s {
	case SettingTrue:
		return true
	case SettingFalse:
		return false
	default:
		return def
	}
}

// SettingFromBool converts a boolean into a forced setting.
func SettingFromBool(b bool) GoalSetting {
	if b {
		return SettingTrue
	}
	return SettingFalse
}

// GoalJobSettings tunes how a single request is resolved.
type GoalJobSettings struct {
	// Strict makes an unmatched spec fail the resolve instead of being skipped.
	Strict GoalSetting
	// RepoIDs restricts candidates to these repositories when non-empty.
	RepoIDs []string
	// ICase matches names case-insensitively.
	ICase bool
}

// GoalJob is one request queued on a goal.
type GoalJob struct {
	Action   GoalAction
	Spec     string
	Settings GoalJobSettings
}

// SolveJob is a goal job together with the packages its spec selected.
type SolveJob struct {
	GoalJob
	// Matches are the selected packages in ascending id order.
	Matches []*Package
}

// SolveRequest is the input handed to a solver.
type SolveRequest struct {
	Jobs []SolveJob
	// Installed are the packages of the system repository.
	Installed []*Package
	// Available are the packages of enabled repositories in ascending id order.
	Available []*Package
	// RepoPriority maps repository ids to their priority; lower wins.
	RepoPriority map[string]int
	// Arch is the system architecture. Empty disables architecture filtering.
	Arch string
	// Strict is the configured default for GoalSetting Auto.
	Strict bool
	// Best prefers the highest version even when a lower one would do.
	Best bool
}
