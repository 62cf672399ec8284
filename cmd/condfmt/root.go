package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
	"github.com/randalmurphal/condfmt/pkg/condfmt/codes"
	"github.com/randalmurphal/condfmt/pkg/condfmt/config"
	"github.com/randalmurphal/condfmt/pkg/condfmt/store"
)

// Flag names, which double as viper keys.
const (
	keyConfig        = "config"
	keyNames         = "names"
	keyCaseSensitive = "case-sensitive"
	keyBufferHint    = "buffer-hint"
	keySentinelBase  = "sentinel-base"
	keyStore         = "store"
	keyLogLevel      = "log-level"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v      *viper.Viper
	params []string
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "condfmt",
		Short: "Compile, inspect and render conditional format strings",
		Long: `condfmt compiles format strings with %name% placeholders, {...} conditional
groups, specifier codes and format codes, and renders them against
parameters given on the command line or in a settings file.

Commands:
  condfmt render TEMPLATE     Render a template source
  condfmt render --name NAME  Render a stored or configured template
  condfmt inspect TEMPLATE    Print the compiled token tree
  condfmt check [TEMPLATE...] Compile templates and report errors
  condfmt put NAME TEMPLATE   Validate and store a template
  condfmt list                List stored templates
  condfmt delete NAME         Remove a stored template`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "settings file (.yaml, .yml or .json)")
	flags.StringSlice(keyNames, nil, "placeholder names (default: the keys of the given params)")
	flags.Bool(keyCaseSensitive, false, "match placeholder and code names case-sensitively")
	flags.Int(keyBufferHint, condfmt.DefaultOutputBufferHint, "initial output buffer capacity")
	flags.String(keySentinelBase, "", "first code point of the internal sentinel range (e.g. U+F0000)")
	flags.String(keyStore, "", "SQLite database holding stored templates")
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.StringArrayVarP(&a.params, "param", "p", nil, "parameter as name=value (repeatable)")

	a.v.SetEnvPrefix("CONDFMT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name != "param" {
			_ = a.v.BindPFlag(f.Name, f)
		}
	})

	root.AddCommand(
		newRenderCmd(a),
		newInspectCmd(a),
		newCheckCmd(a),
		newPutCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString(keyLogLevel))); err != nil {
		return fmt.Errorf("invalid --%s: %w", keyLogLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// settings merges the settings file with flag and environment overrides.
func (a *app) settings() (config.Settings, error) {
	raw := map[string]any{}
	if path := a.v.GetString(keyConfig); path != "" {
		c, err := config.FromFile(path)
		if err != nil {
			return config.Settings{}, err
		}
		for k, v := range c.Raw() {
			raw[k] = v
		}
	}

	if a.v.IsSet(keyNames) {
		raw[config.KeyNames] = splitList(a.v.GetStringSlice(keyNames))
	}
	if a.v.IsSet(keyCaseSensitive) {
		raw[config.KeyCaseSensitive] = a.v.GetBool(keyCaseSensitive)
	}
	if a.v.IsSet(keyBufferHint) {
		raw[config.KeyBufferHint] = a.v.GetInt(keyBufferHint)
	}
	if a.v.IsSet(keySentinelBase) {
		raw[config.KeySentinelBase] = a.v.GetString(keySentinelBase)
	}

	s, err := config.FromConfig(config.New(raw))
	if err != nil {
		return config.Settings{}, err
	}

	params := make(map[string]string, len(s.Params)+len(a.params))
	for k, v := range s.Params {
		params[k] = v
	}
	for _, p := range a.params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return config.Settings{}, fmt.Errorf("invalid --param %q: want name=value", p)
		}
		params[name] = value
	}
	s.Params = params

	if len(s.Names) == 0 {
		s.Names = make([]string, 0, len(params))
		for k := range params {
			s.Names = append(s.Names, k)
		}
		slices.Sort(s.Names)
	}
	return s, nil
}

// splitList flattens comma-separated elements. Environment values arrive
// as a single element.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// constructor builds a constructor whose resolver reads s.Params.
func (a *app) constructor(s config.Settings) (*condfmt.Constructor, error) {
	opts := append(s.Options(), codes.Options()...)
	opts = append(opts,
		condfmt.WithLogger(a.logger),
		condfmt.WithResolver(paramResolver(s)),
	)
	return condfmt.New(s.Names, opts...)
}

// paramResolver looks names up in s.Params. Without case sensitivity a
// parameter given as USER satisfies the placeholder user.
func paramResolver(s config.Settings) condfmt.Resolver {
	return func(name string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
		if v, ok := s.Params[name]; ok || s.CaseSensitive {
			return v, nil
		}
		for k, v := range s.Params {
			if strings.EqualFold(k, name) {
				return v, nil
			}
		}
		return "", nil
	}
}

// library opens the template library. Templates from the settings file
// sit in a read-only layer under the store: a stored template of the same
// name wins, and nothing from the settings file is written to the store.
func (a *app) library(s config.Settings, ctor *condfmt.Constructor) (*condfmt.Library, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}

	settings := store.NewMemoryStore()
	for _, name := range sortedKeys(s.Templates) {
		if err := settings.Save(name, s.Templates[name]); err != nil {
			st.Close()
			return nil, err
		}
	}
	return condfmt.NewLibrary(ctor, store.NewOverlay(st, settings)), nil
}

// store opens the SQLite store named by --store, or a memory store.
func (a *app) store() (store.Store, error) {
	path := a.v.GetString(keyStore)
	if path == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(path)
}

// open loads settings and builds the constructor and library in one step.
func (a *app) open() (config.Settings, *condfmt.Library, error) {
	s, err := a.settings()
	if err != nil {
		return config.Settings{}, nil, err
	}
	ctor, err := a.constructor(s)
	if err != nil {
		return config.Settings{}, nil, err
	}
	lib, err := a.library(s, ctor)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return s, lib, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
