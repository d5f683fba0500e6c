// deskhived serves the customer/ticket query catalog over JSON-RPC, either
// line-oriented on stdin/stdout (the default, for process-pipe callers) or
// over HTTP when a listen port is configured. Logs always go to stderr so
// stdout stays a clean protocol channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/deskhive-io/deskhive/internal/catalog"
	"github.com/deskhive-io/deskhive/internal/config"
	"github.com/deskhive-io/deskhive/internal/logbuf"
	"github.com/deskhive-io/deskhive/internal/rpc"
	"github.com/deskhive-io/deskhive/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file")
	dbPath := flag.String("db", "", "Path to the SQLite database (overrides config)")
	httpAddr := flag.String("http", "", "Serve JSON-RPC over HTTP on host:port instead of stdio")
	seed := flag.Bool("seed", false, "Seed the database with demo data before serving")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Set up logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logBuf := logbuf.New(2000)
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logbuf.NewHandler(jsonHandler, logBuf))

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *seed {
		cfg.Seed = true
	}
	if *httpAddr != "" {
		host, port, perr := splitHostPort(*httpAddr)
		if perr != nil {
			logger.Error("invalid -http address", "addr", *httpAddr, "error", perr)
			os.Exit(1)
		}
		cfg.HTTP = config.HTTPConfig{Host: host, Port: port}
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if cfg.Seed {
		if err := s.Seed(); err != nil {
			logger.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
		logger.Info("database seeded", "path", cfg.DBPath)
	}

	reg := catalog.NewRegistry()
	catalog.RegisterAll(reg, catalog.New(s))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTP.Port > 0 {
		logger.Info("deskhived starting", "mode", "http", "db", cfg.DBPath, "methods", reg.Len())
		srv := rpc.NewHTTPServer(reg, rpc.HTTPConfig(cfg.HTTP), logger, logBuf)
		if err := srv.Start(ctx); err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("deskhived starting", "mode", "stdio", "db", cfg.DBPath, "methods", reg.Len())
	srv := rpc.NewServer(os.Stdin, os.Stdout, reg, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("rpc server failed", "error", err)
		os.Exit(1)
	}
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("port %q: %w", portStr, err)
	}
	return host, port, nil
}
