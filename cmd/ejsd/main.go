package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"ejsd/internal/config"
	"ejsd/internal/lsp"
	"ejsd/internal/server"
)

const (
	name    = "ejsd"
	version = "0.1.0"
)

func main() {
	configPath := pflag.String("config", "", "path to a YAML config file")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warn, error")
	logFile := pflag.String("log-file", "", "log file (default: stderr)")
	showVersion := pflag.BoolP("version", "v", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", name, version)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	initLogging(cfg.LogLevel, cfg.LogFile)
	slog.Info("Logging initialized", "level", cfg.LogLevel)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(lsp.Split)

	state := server.NewState(server.Config{
		Source:             cfg.Source,
		DefaultMaxProblems: cfg.MaxProblems,
	})
	srv := server.NewServer(name, version, state, os.Stdout)

	for scanner.Scan() {
		// The scanner reuses its buffer; the queue outlives this iteration.
		msg := bytes.Clone(scanner.Bytes())
		method, contents, err := lsp.DecodeMessage(msg)
		if err != nil {
			slog.Error("ERROR decoding message", "err", err)
			continue
		}
		srv.HandleMessage(method, contents)
	}

	srv.Stop()
}

func initLogging(levelStr, filename string) {
	var l slog.Level
	switch levelStr {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	// stdout carries the protocol, so logs go to a file or stderr.
	out := os.Stderr
	if filename != "" {
		logfile, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: could not open log file: %v\n", name, err)
		} else {
			out = logfile
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}
