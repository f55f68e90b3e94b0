package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"mankai/internal/history"
	"mankai/internal/lexer"
	mlog "mankai/internal/log"
	"mankai/internal/repl"
	"mankai/internal/session"
	"mankai/internal/util"
	"os"
)

var (
	// Version is stamped at build time with -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool

	overrides util.Overrides
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	overrides.Register(flag.CommandLine)
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}
	if help {
		printHelp()
		return 0
	}

	config, err := overrides.Resolve(flag.CommandLine, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	logger, closeLog, err := mlog.New(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	var store *history.Store
	if config.HistoryDSN != "" {
		store, err = history.Open(config.HistoryDriver, config.HistoryDSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer store.Close()
	}

	ctx := context.Background()
	sess := session.New(config, store)
	slog.Info("session started",
		slog.String("session", sess.ID),
		slog.Int("maxDepth", config.MaxDepth))

	if flag.NArg() == 0 {
		if err := repl.Start(ctx, sess, config.Prompt, config.LineHistoryFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	return runFile(ctx, sess, flag.Arg(0))
}

func runFile(ctx context.Context, sess *session.Session, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return 1
	}

	val, err := sess.EvalSource(ctx, path, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		var se *lexer.ScanError
		if errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, util.GetContextLines(string(src), se.Line, se.Column))
		}
		return 1
	}
	fmt.Println(val.Inspect())
	return 0
}

func printVersion() {

	fmt.Printf("mankai version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: mankai [options] [filename]

Options:
  -config <path>          Load settings from a TOML file.
  -max-depth <n>          Maximum nesting of user-defined calls. Default is 10000, 0 disables it.
  -history-driver <name>  Transcript database driver: sqlite3, mysql, postgres. Default is 'sqlite3'.
  -history-dsn <dsn>      Transcript database DSN. Also read from $MANKAI_HISTORY_DSN.
  -line-history <path>    File for REPL line editing history.
  -debug-json-ast         Render the AST of the file as <filename>.ast.json.
  -debug-txt-ast          Render the AST of the file as <filename>.ast.txt.
  -help                   Display this help information and exit.
  -version                Display version information and exit.
  -log-level <level>      Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>        Specify a log file to write logs. Default is stderr.

Details:
This is the mankai interpreter. Without a filename it starts a REPL.

Examples:
  mankai                                   Start the REPL
  mankai -log-level=debug                  Start with debug logging enabled
  mankai prog.mk                           Evaluate the file and print the last value
  mankai -history-dsn=mankai.db prog.mk    Record the transcript in a SQLite database

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
