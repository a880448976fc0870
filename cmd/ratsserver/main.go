package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rats-server/admin"
	"rats-server/engine"
	"rats-server/history"
	"rats-server/server"
)

const (
	exitUsage = 8
	exitPort  = 17
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(exitUsage)
	}

	logger := newLogger(cfg.LogLevel)

	listener, err := server.Listen(cfg.Port)
	if err != nil {
		logger.Debug().Err(err).Msg("listen failed")
		fmt.Fprintf(os.Stderr, "ratsserver: cannot listen on given port \"%s\"\n", cfg.Port)
		os.Exit(exitPort)
	}
	fmt.Fprintf(os.Stderr, "%d\n", listener.Addr().(*net.TCPAddr).Port)

	opts := engine.Options{DealMode: cfg.DealMode}
	var store admin.HistoryStore
	if cfg.History {
		ledger, err := history.Open(logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open history ledger")
		}
		defer ledger.Close()
		opts.Recorder = ledger
		store = ledger
	}

	registry := engine.NewRegistry(logger, opts)
	admission := engine.NewAdmission(cfg.MaxConns)
	tcpServer := server.NewTCPServer(listener, registry, admission, cfg.Message, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	reporter := server.NewStatsReporter(registry.Counters(), os.Stderr, logger)
	go reporter.Run(ctx, hup)

	var adminServer *admin.Server
	if cfg.AdminAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		adminServer = admin.New(admin.Config{
			Addr:           cfg.AdminAddr,
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit: admin.RateLimiterConfig{
				RequestsPerSecond: cfg.AdminRPS,
				BurstSize:         cfg.AdminBurst,
			},
		}, registry, admission, store, logger)
		go func() {
			if err := adminServer.ListenAndServe(); err != nil {
				logger.Error().Err(err).Msg("admin API stopped")
			}
		}()
	}

	if err := tcpServer.Serve(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}

	logger.Info().Msg("shutting down")
	if adminServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("admin API shutdown")
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Str("service", "ratsserver").
		Logger()
}
