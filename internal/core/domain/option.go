package domain

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Option is a single prioritized configuration value.
type Option interface {
	// Priority returns the priority of the current value.
	Priority() Priority
	// String returns the textual form of the current value.
	String() string
	// Set parses text and stores it when p is at least the current priority.
	// Writes with a lower priority are ignored without error.
	Set(p Priority, text string) error
	// IsSet reports whether the value came from a source above the defaults.
	IsSet() bool

	clone() Option
}

// TypedOption is an Option holding a value of type T.
type TypedOption[T any] struct {
	value    T
	priority Priority
	parse    func(string) (T, error)
	format   func(T) string
}

var _ Option = (*TypedOption[string])(nil)

func newTypedOption[T any](def T, parse func(string) (T, error), format func(T) string) *TypedOption[T] {
	return &TypedOption[T]{
		value:    def,
		priority: PriorityDefault,
		parse:    parse,
		format:   format,
	}
}

// Value returns the current value.
func (o *TypedOption[T]) Value() T {
	return o.value
}

// Priority implements Option.
func (o *TypedOption[T]) Priority() Priority {
	return o.priority
}

// String implements Option.
func (o *TypedOption[T]) String() string {
	return o.format(o.value)
}

// IsSet implements Option.
func (o *TypedOption[T]) IsSet() bool {
	return o.priority > PriorityDefault
}

// Set implements Option.
func (o *TypedOption[T]) Set(p Priority, text string) error {
	if p < o.priority {
		return nil
	}
	v, err := o.parse(text)
	if err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidOptionValue, err.Error()), "value", text)
	}
	o.value = v
	o.priority = p
	return nil
}

// SetValue stores an already typed value when p is at least the current priority.
func (o *TypedOption[T]) SetValue(p Priority, v T) {
	if p < o.priority {
		return
	}
	o.value = v
	o.priority = p
}

func (o *TypedOption[T]) clone() Option {
	c := *o
	return &c
}

// NewStringOption returns a string option with the given default.
func NewStringOption(def string) *TypedOption[string] {
	return newTypedOption(def, func(s string) (string, error) { return s, nil }, identity)
}

// NewBoolOption returns a boolean option accepting 1/0, yes/no, true/false and on/off.
func NewBoolOption(def bool) *TypedOption[bool] {
	return newTypedOption(def, ParseBool, FormatBool)
}

// NewIntOption returns an integer option.
func NewIntOption(def int) *TypedOption[int] {
	return newTypedOption(def, func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}, strconv.Itoa)
}

// NewStringListOption returns an option holding a list separated by commas or whitespace.
func NewStringListOption(def []string) *TypedOption[[]string] {
	return newTypedOption(def, func(s string) ([]string, error) {
		return SplitList(s), nil
	}, func(v []string) string {
		return strings.Join(v, ", ")
	})
}

// NewPathOption returns a path option. Non-empty values must be absolute
// when absolute is true.
func NewPathOption(def string, absolute bool) *TypedOption[string] {
	return newTypedOption(def, func(s string) (string, error) {
		s = strings.TrimSpace(s)
		if absolute && s != "" && !filepath.IsAbs(s) {
			return "", zerr.With(zerr.New("path must be absolute"), "path", s)
		}
		if s == "" {
			return s, nil
		}
		return filepath.Clean(s), nil
	}, identity)
}

// ParseBool parses the boolean spellings accepted in configuration files.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	default:
		return false, zerr.With(zerr.New("invalid boolean"), "value", s)
	}
}

// FormatBool renders a boolean the way configuration files store it.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SplitList splits a configuration list on commas and whitespace.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func identity(s string) string { return s }
