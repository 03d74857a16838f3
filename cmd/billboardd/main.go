// Command billboardd runs the document enrichment daemon: an HTTP server
// that fetches legislative documents, enriches them with summaries and
// narration, and caches the results.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"billboard/internal/config"
	"billboard/internal/daemon"
	"billboard/internal/logging"
	"billboard/internal/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Server.LockFile), 0o755); err != nil {
		logger.Error("create lock directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	lock := flock.New(cfg.Server.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("acquire daemon lock", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !locked {
		logger.Error("another billboardd instance holds the lock",
			slog.String("lock_file", cfg.Server.LockFile))
		os.Exit(1)
	}
	defer lock.Unlock() //nolint:errcheck

	p, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server, err := daemon.NewServer(cfg, p, logger)
	if err != nil {
		logger.Error("build server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := server.Start(ctx); err != nil {
		logger.Error("start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer server.Stop()

	<-ctx.Done()
	logger.Info("billboardd shutting down")
}
