package main

import (
	"flag"
	"fmt"
	"log/slog"
	"mankai/internal/history"
	mlog "mankai/internal/log"
	"mankai/internal/mcpserver"
	"mankai/internal/session"
	"mankai/internal/util"
	"os"

	"github.com/mark3labs/mcp-go/server"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	overrides util.Overrides
)

func init() {
	overrides.Register(flag.CommandLine)
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	config, err := overrides.Resolve(flag.CommandLine, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	// stdout carries the protocol, logs go to stderr or the log file
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

	sess := session.New(config, store)
	s := mcpserver.NewServer(sess, Version)
	slog.Info("serving MCP over stdio", slog.String("session", sess.ID))

	if err := server.ServeStdio(s); err != nil {
		slog.Error("server error", slog.Any("error", err))
		return 1
	}
	return 0
}
