package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msnews/leaderboard-comb/app/api"
	"github.com/msnews/leaderboard-comb/app/archive"
	"github.com/msnews/leaderboard-comb/app/cfg"
	"github.com/msnews/leaderboard-comb/app/pipeline"
	"github.com/msnews/leaderboard-comb/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting leaderboard update", "version", appCfg.Version)

	srcs, err := sources.NewLoader(appCfg.SourcesDir).LoadAll()
	if err != nil {
		log.Fatalf("Failed to load source configurations: %v", err)
	}
	slog.Info("Loaded source configurations", "count", len(srcs))

	var arch *archive.Archive
	if appCfg.ArchiveDB != "" {
		arch, err = archive.Open(appCfg.ArchiveDB)
		if err != nil {
			log.Fatalf("Failed to open run archive: %v", err)
		}
		defer arch.Close()
	}

	p := pipeline.New(appCfg, srcs)

	combined, err := p.Run(context.Background())
	if err != nil {
		slog.Error("Update run failed", "error", err)
		os.Exit(1)
	}

	if err := p.WriteArtifacts(combined); err != nil {
		slog.Error("Failed to write artifacts", "error", err)
		os.Exit(1)
	}

	if arch != nil {
		runID, err := arch.RecordRun(combined)
		if err != nil {
			slog.Warn("Failed to record run in archive", "error", err)
		} else {
			slog.Info("Recorded run in archive", "run_id", runID)
		}
	}

	if !appCfg.Serve {
		return
	}

	handler := api.NewHandler(appCfg.Output, arch)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Serving combined artifact", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}
