// Package main - entry point for the exam time extension CLI.
//
// The tool connects to the key-value store, resolves a student by login,
// lists that student's exams, and extends the deadline on one attempt
// record. Strictly sequential: one connection, opened at startup and
// released on exit or cancellation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/examdesk/extendexam/config"
	"github.com/examdesk/extendexam/internal/application/command"
	redisstore "github.com/examdesk/extendexam/internal/infrastructure/persistence/redis"
	"github.com/examdesk/extendexam/internal/interface/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development. A missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := redisstore.NewStore(redisstore.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Error("store connection failed", slog.String("addr", cfg.Redis.Addr()), slog.Any("error", err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close failed", slog.Any("error", err))
		} else {
			logger.Debug("store connection released")
		}
	}()

	logger.Info("connected to store", slog.String("addr", cfg.Redis.Addr()))

	handler := command.NewExtendAttemptHandler(store, logger)
	session := cli.New(os.Stdin, os.Stdout, store, handler, logger, cfg.App.CancelToken)

	return session.Run(ctx)
}

// setupLogger configures structured logging. Prompt output goes to stdout;
// diagnostics go to stderr so they can be redirected independently.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.App.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	log := slog.New(handler).With(
		slog.String("app", cfg.App.Name),
		slog.String("session_id", uuid.NewString()),
	)
	slog.SetDefault(log)

	return log
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
