package config

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

// Keys recognized by FromConfig.
const (
	KeyNames         = "names"
	KeyCaseSensitive = "case_sensitive"
	KeyBufferHint    = "buffer_hint"
	KeySentinelBase  = "sentinel_base"
	KeyTemplates     = "templates"
	KeyParams        = "params"
)

// ErrInvalidSettings indicates a settings value of the wrong shape.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings describes a constructor, a set of named templates and default
// parameter values.
type Settings struct {
	Names         []string
	CaseSensitive bool
	BufferHint    int
	SentinelBase  rune
	Templates     map[string]string
	Params        map[string]string
}

// DefaultSettings returns settings with the constructor defaults.
func DefaultSettings() Settings {
	return Settings{
		BufferHint:   condfmt.DefaultOutputBufferHint,
		SentinelBase: condfmt.DefaultSentinelBase,
	}
}

// FromConfig extracts Settings from a decoded configuration. Present keys
// with a value of the wrong shape are reported; missing keys keep their
// defaults.
func FromConfig(c Config) (Settings, error) {
	s := DefaultSettings()
	var errs []error

	check := func(key string, ok bool) {
		if c.Has(key) && !ok {
			errs = append(errs, fmt.Errorf("%w: %s has type %T", ErrInvalidSettings, key, c.Any(key, nil)))
		}
	}

	s.Names = c.StringSlice(KeyNames, nil)
	check(KeyNames, s.Names != nil)

	_, isBool := c.Any(KeyCaseSensitive, nil).(bool)
	check(KeyCaseSensitive, isBool)
	s.CaseSensitive = c.Bool(KeyCaseSensitive, false)

	const unset = -1
	if n := c.Int(KeyBufferHint, unset); n != unset {
		s.BufferHint = n
	} else {
		check(KeyBufferHint, false)
	}

	if r := c.Rune(KeySentinelBase, unset); r != unset {
		s.SentinelBase = r
	} else {
		check(KeySentinelBase, false)
	}

	s.Templates = c.StringMap(KeyTemplates, nil)
	check(KeyTemplates, s.Templates != nil)

	s.Params = c.StringMap(KeyParams, nil)
	check(KeyParams, s.Params != nil)

	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}
	return s, nil
}

// LoadFile reads Settings from a YAML or JSON file.
func LoadFile(path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return FromConfig(c)
}

// Options returns the constructor options the settings describe.
func (s Settings) Options() []condfmt.Option {
	return []condfmt.Option{
		condfmt.WithCaseSensitive(s.CaseSensitive),
		condfmt.WithOutputBufferHint(s.BufferHint),
		condfmt.WithSentinelBase(s.SentinelBase),
	}
}
