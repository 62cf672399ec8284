/*
Package config provides type-safe configuration extraction from map[string]any
and loading of condfmt settings from YAML or JSON files.

# Basic Usage

	cfg := config.New(map[string]any{
	    "names":         []any{"user", "count"},
	    "buffer_hint":   512,
	    "sentinel_base": "U+F0000",
	})

	names := cfg.StringSlice("names", nil)          // [user count]
	hint := cfg.Int("buffer_hint", 1024)            // 512
	base := cfg.Rune("sentinel_base", 0xE000)       // U+F0000
	missing := cfg.String("missing", "default")     // "default"

All accessors return the default value if the key is missing or the value
cannot be converted to the requested type.

# Settings Files

	names: [user, count]
	case_sensitive: false
	buffer_hint: 2048
	sentinel_base: U+E000
	templates:
	  greeting: "Hello %user%{, you have %count% new messages}"
	params:
	  user: guest

Load and apply:

	s, err := config.LoadFile("condfmt.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	ctor, err := condfmt.New(s.Names, append(s.Options(), condfmt.WithResolver(resolve))...)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
