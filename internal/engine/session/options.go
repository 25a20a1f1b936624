package session

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseOptions converts the option map a client opens a session with.
// Values may be strings, booleans, numbers or lists of strings. Keys other
// than the session switches must name a main configuration option.
func ParseOptions(raw map[string]any) (domain.SessionOptions, error) {
	opts := domain.DefaultSessionOptions()
	known := domain.NewMainConfig()
	for key, value := range raw {
		switch key {
		case domain.SessionOptLoadSystemRepo:
			b, err := boolValue(key, value)
			if err != nil {
				return opts, err
			}
			opts.LoadSystemRepo = b
		case domain.SessionOptLoadAvailableRepos:
			b, err := boolValue(key, value)
			if err != nil {
				return opts, err
			}
			opts.LoadAvailableRepos = b
		case domain.SessionOptWatchReposdir:
			b, err := boolValue(key, value)
			if err != nil {
				return opts, err
			}
			opts.WatchReposdir = b
		default:
			if !known.Has(key) {
				return opts, zerr.With(zerr.Wrap(domain.ErrUnknownOption, "cannot open session"), "option", key)
			}
			text, err := textValue(key, value)
			if err != nil {
				return opts, err
			}
			opts.Config[key] = text
		}
	}
	return opts, nil
}

func boolValue(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := domain.ParseBool(v)
		if err != nil {
			return false, zerr.With(zerr.Wrap(domain.ErrInvalidOptionValue, err.Error()), "option", key)
		}
		return b, nil
	default:
		return false, invalidValue(key, value)
	}
}

func textValue(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return domain.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []string:
		return strings.Join(v, ","), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", invalidValue(key, value)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", invalidValue(key, value)
	}
}

func invalidValue(key string, value any) error {
	err := zerr.Wrap(domain.ErrInvalidOptionValue, fmt.Sprintf("unsupported value type %T", value))
	return zerr.With(err, "option", key)
}
