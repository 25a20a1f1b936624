package domain

import (
	"maps"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Main configuration option names.
const (
	OptInstallroot       = "installroot"
	OptConfigFilePath    = "config_file_path"
	OptReposdir          = "reposdir"
	OptCachedir          = "cachedir"
	OptGPGCheck          = "gpgcheck"
	OptBest              = "best"
	OptStrict            = "strict"
	OptSkipIfUnavailable = "skip_if_unavailable"
	OptTSFlags           = "tsflags"
	OptArch              = "arch"
)

// Repository option names.
const (
	OptName       = "name"
	OptBaseURL    = "baseurl"
	OptMirrorlist = "mirrorlist"
	OptMetalink   = "metalink"
	OptEnabled    = "enabled"
	OptGPGKey     = "gpgkey"
	OptPriority   = "priority"
	OptCost       = "cost"
	OptType       = "type"
)

// Defaults for the main configuration.
const (
	DefaultConfigFilePath = "/etc/rpmd/rpmd.conf"
	DefaultCachedir       = "/var/cache/rpmd"
	DefaultRepoPriority   = 99
	DefaultRepoCost       = 1000
)

// DefaultReposdirs are the directories scanned for *.repo files.
var DefaultReposdirs = []string{"/etc/yum.repos.d", "/etc/distro.repos.d", "/etc/rpmd/repos.d"}

// Config is a named set of prioritized options. It is safe for concurrent use.
type Config struct {
	mu      sync.RWMutex
	options map[string]Option
}

// NewConfig creates a Config over the given options.
func NewConfig(options map[string]Option) *Config {
	return &Config{options: options}
}

// NewMainConfig returns the configuration store for a session with built-in defaults.
func NewMainConfig() *Config {
	return NewConfig(map[string]Option{
		OptInstallroot:       NewPathOption("/", true),
		OptConfigFilePath:    NewPathOption(DefaultConfigFilePath, true),
		OptReposdir:          NewStringListOption(slices.Clone(DefaultReposdirs)),
		OptCachedir:          NewPathOption(DefaultCachedir, true),
		OptGPGCheck:          NewBoolOption(false),
		OptBest:              NewBoolOption(true),
		OptStrict:            NewBoolOption(true),
		OptSkipIfUnavailable: NewBoolOption(false),
		OptTSFlags:           NewStringListOption(nil),
		OptArch:              NewStringOption(BaseArch(runtime.GOARCH)),
	})
}

// NewRepoConfig returns the option set of a single repository.
func NewRepoConfig() *Config {
	return NewConfig(map[string]Option{
		OptName:              NewStringOption(""),
		OptBaseURL:           NewStringListOption(nil),
		OptMirrorlist:        NewStringOption(""),
		OptMetalink:          NewStringOption(""),
		OptEnabled:           NewBoolOption(true),
		OptGPGCheck:          NewBoolOption(false),
		OptGPGKey:            NewStringListOption(nil),
		OptPriority:          NewIntOption(DefaultRepoPriority),
		OptCost:              NewIntOption(DefaultRepoCost),
		OptSkipIfUnavailable: NewBoolOption(false),
		OptType:              NewStringOption(""),
	})
}

// Get returns the textual value of the named option.
func (c *Config) Get(name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	opt, ok := c.options[name]
	if !ok {
		return "", zerr.With(zerr.Wrap(ErrUnknownOption, "cannot get option"), "option", name)
	}
	return opt.String(), nil
}

// Set writes value to the named option at priority p.
// A write below the option's current priority leaves it unchanged.
func (c *Config) Set(name, value string, p Priority) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	opt, ok := c.options[name]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownOption, "cannot set option"), "option", name)
	}
	if err := opt.Set(p, value); err != nil {
		return zerr.With(err, "option", name)
	}
	return nil
}

// Has reports whether name is a recognized option.
func (c *Config) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.options[name]
	return ok
}

// Priority returns the priority of the named option's current value.
func (c *Config) Priority(name string) Priority {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if opt, ok := c.options[name]; ok {
		return opt.Priority()
	}
	return PriorityEmpty
}

// List returns the sorted names of all recognized options.
func (c *Config) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.options))
}

// Attributes returns the options that were set above their defaults.
func (c *Config) Attributes() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	attrs := make(map[string]string)
	for name, opt := range c.options {
		if opt.IsSet() {
			attrs[name] = opt.String()
		}
	}
	return attrs
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	options := make(map[string]Option, len(c.options))
	for name, opt := range c.options {
		options[name] = opt.clone()
	}
	return NewConfig(options)
}

// String returns the typed value of a string option, or "" if it is not one.
func (c *Config) String(name string) string {
	return typedValue[string](c, name)
}

// Bool returns the typed value of a boolean option.
func (c *Config) Bool(name string) bool {
	return typedValue[bool](c, name)
}

// Int returns the typed value of an integer option.
func (c *Config) Int(name string) int {
	return typedValue[int](c, name)
}

// StringList returns a copy of a list option's value.
func (c *Config) StringList(name string) []string {
	return slices.Clone(typedValue[[]string](c, name))
}

// SetBool writes a boolean option at priority p.
func (c *Config) SetBool(name string, v bool, p Priority) error {
	return c.Set(name, FormatBool(v), p)
}

func typedValue[T any](c *Config, name string) T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	opt, ok := c.options[name].(*TypedOption[T])
	if !ok {
		return zero
	}
	return opt.Value()
}

// BaseArch maps a Go architecture name to the RPM base architecture.
func BaseArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "aarch64"
	case "ppc64le":
		return "ppc64le"
	case "s390x":
		return "s390x"
	case "riscv64":
		return "riscv64"
	default:
		return goarch
	}
}
