package util

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// MaxDepth bounds nested user-defined calls; zero or less disables it.
	MaxDepth int `toml:"max_depth"`

	// HistoryDriver is one of sqlite3, mysql or postgres. An empty DSN
	// disables the transcript store.
	HistoryDriver string `toml:"history_driver"`
	HistoryDSN    string `toml:"history_dsn"`

	LineHistoryFile string `toml:"line_history_file"`
	Prompt          string `toml:"prompt"`

	DebugJsonAST bool `toml:"debug_json_ast"`
	DebugTxtAST  bool `toml:"debug_txt_ast"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Version:       "dev",
		BuildDate:     "unknown",
		Commit:        "unknown",
		LogLevel:      "none",
		MaxDepth:      10000,
		HistoryDriver: "sqlite3",
		Prompt:        "mankai> ",
	}
}

// LoadConfig decodes a TOML file over the defaults. Unknown keys are an error
// so that typos do not silently fall back to defaults.
func LoadConfig(path string) (Configuration, error) {
	config := DefaultConfiguration()
	if path == "" {
		return config, nil
	}

	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return config, fmt.Errorf("failed to load config '%s': %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config, fmt.Errorf("unknown keys in config '%s': %s", path, strings.Join(keys, ", "))
	}

	return config, nil
}
