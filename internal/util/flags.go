package util

import "flag"

const HistoryDSNEnv = "MANKAI_HISTORY_DSN"

// Overrides holds the command line flags shared by the mankai binaries.
// Only flags that were set explicitly override the config file.
type Overrides struct {
	ConfigPath      string
	LogLevel        string
	LogFile         string
	MaxDepth        int
	HistoryDriver   string
	HistoryDSN      string
	LineHistoryFile string
	DebugJsonAST    bool
	DebugTxtAST     bool
}

func (o *Overrides) Register(fs *flag.FlagSet) {
	defaults := DefaultConfiguration()

	fs.StringVar(&o.ConfigPath, "config", "", "TOML configuration file")
	// log config
	fs.StringVar(&o.LogLevel, "log-level", defaults.LogLevel, "Log level: trace, debug, info, warn, error, none")
	fs.StringVar(&o.LogFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// evaluator config
	fs.IntVar(&o.MaxDepth, "max-depth", defaults.MaxDepth, "Maximum nesting of user-defined calls, 0 disables the limit")
	// history config
	fs.StringVar(&o.HistoryDriver, "history-driver", defaults.HistoryDriver, "Transcript database driver: sqlite3, mysql, postgres")
	fs.StringVar(&o.HistoryDSN, "history-dsn", "", "Transcript database DSN (empty disables the transcript)")
	fs.StringVar(&o.LineHistoryFile, "line-history", "", "File for REPL line editing history")
	// parser config
	fs.BoolVar(&o.DebugJsonAST, "debug-json-ast", false, "Render the AST as a JSON file")
	fs.BoolVar(&o.DebugTxtAST, "debug-txt-ast", false, "Render the AST as a text file")
}

// Resolve layers defaults, the config file, explicitly set flags and the
// environment, in that order.
func (o *Overrides) Resolve(fs *flag.FlagSet, getenv func(string) string) (Configuration, error) {
	config, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return config, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = o.LogLevel
		case "log-file":
			config.LogFile = o.LogFile
		case "max-depth":
			config.MaxDepth = o.MaxDepth
		case "history-driver":
			config.HistoryDriver = o.HistoryDriver
		case "history-dsn":
			config.HistoryDSN = o.HistoryDSN
		case "line-history":
			config.LineHistoryFile = o.LineHistoryFile
		case "debug-json-ast":
			config.DebugJsonAST = o.DebugJsonAST
		case "debug-txt-ast":
			config.DebugTxtAST = o.DebugTxtAST
		}
	})

	if dsn := getenv(HistoryDSNEnv); dsn != "" {
		config.HistoryDSN = dsn
	}
	return config, nil
}
