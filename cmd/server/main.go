package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"tankai-server/internal/engine"
	"tankai-server/internal/infrastructure/storage"
	"tankai-server/internal/network"
	"tankai-server/internal/server"
	"tankai-server/internal/version"
	"tankai-server/pkg/logger"
	"time"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		configPath  string
		seed        int64
		maxFrames   uint64
		journalPath string
		headless    bool
	)
	flag.StringVar(&configPath, "config", "", "Path to match YAML config (empty for defaults)")
	// По умолчанию 0 (значит взять из конфига или сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Match seed (0 keeps config/random seed)")
	flag.Uint64Var(&maxFrames, "ticks", 0, "Stop after N frames (0 for unlimited)")
	flag.StringVar(&journalPath, "journal", "", "Path to SQLite event journal (empty to disable)")
	flag.BoolVar(&headless, "headless", false, "Run the match without the HTTP server")
	flag.Parse()

	logger.Log.Info("Starting Tank AI server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using seed: %d", cfg.Seed)
	}

	port := os.Getenv("TANKAI_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация матча и цикла
	match, err := engine.NewMatch(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to create match")
	}

	hub := network.NewBroadcaster()
	gameService := engine.NewService(match, hub)
	gameService.SetMaxFrames(maxFrames)

	if journalPath != "" {
		journal, err := storage.Open(journalPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to open journal")
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Log.WithError(err).Error("failed to close journal")
			}
		}()
		if err := gameService.AttachJournal(journal); err != nil {
			logger.Log.WithError(err).Fatal("failed to attach journal")
		}
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- gameService.Run(ctx)
	}()

	// 3. Запуск сервера
	var srv *server.Server
	if !headless {
		srv = server.New(gameService, port)
		go func() {
			if err := srv.Run(); err != nil {
				logger.Log.WithError(err).Error("server error")
				stop()
			}
		}()
	}

	loopStopped := false
	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down...")
	case err := <-loopDone:
		loopStopped = true
		if err != nil {
			logger.Log.WithError(err).Error("game loop failed")
		}
		stop()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("server shutdown failed")
		}
	}

	// Цикл сам сбрасывает журнал при выходе
	if !loopStopped {
		select {
		case <-loopDone:
		case <-time.After(2 * time.Second):
			logger.Log.Warn("game loop did not stop in time")
		}
	}

	logger.Log.WithField("frames", match.Frame()).Info("Done.")
}
