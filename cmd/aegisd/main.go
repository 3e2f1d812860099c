package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/aegis-watch/aegisd/pkg/api"
	"github.com/aegis-watch/aegisd/pkg/config"
	"github.com/aegis-watch/aegisd/pkg/engine"
	"github.com/aegis-watch/aegisd/pkg/logger"
	"github.com/aegis-watch/aegisd/pkg/notify"
	"github.com/aegis-watch/aegisd/pkg/probes"
	"github.com/aegis-watch/aegisd/pkg/quarantine"
	"github.com/aegis-watch/aegisd/pkg/scanner"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

func main() {
	// Optional .env, loaded before the config so env overrides apply.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.InitLogger(cfg.LogLevel)

	log.Info().Msg("Aegis security engine starting...")
	log.Info().Msgf("Configuration loaded: LogLevel=%s, APIPort=%s, ScanInterval=%s",
		cfg.LogLevel, cfg.APIPort, cfg.Security.ScanInterval)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())

	// Set up a channel to listen for OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to handle graceful shutdown
	go func() {
		sig := <-sigChan
		log.Info().Msgf("Received signal: %s. Shutting down gracefully...", sig)
		cancel()
	}()

	notifier := notify.NewLogNotifier(logger.Component("notify"))
	threats := threatlog.NewLog(cfg.Threats.Capacity, log.Logger)

	fileScanner := scanner.NewScanner(scanner.Options{
		LargeFileThreshold:  cfg.Scanner.LargeFileThreshold,
		EntropyThreshold:    cfg.Scanner.EntropyThreshold,
		DangerousExtensions: cfg.Scanner.DangerousExtensions,
	}, scanner.NewHashSet(cfg.Scanner.KnownBadHashes), threats, log.Logger)

	jail := quarantine.NewManager(cfg.Dirs.Quarantine, threats, notifier, log.Logger)

	eng := engine.New(engine.Deps{
		Config:        cfg.Security,
		Threats:       threats,
		Processes:     probes.NewSystemProcessLister(),
		Connections:   probes.NewSystemConnectionLister(),
		Resources:     probes.NewSystemResourceGauge(),
		Scanner:       fileScanner,
		Quarantine:    jail,
		Notifier:      notifier,
		LogDir:        cfg.Dirs.Logs,
		RetentionDays: cfg.Threats.RetentionDays,
		Logger:        log.Logger,
	})

	eng.Start(cfg.Security.ScanInterval)

	server := api.NewServer(eng, cfg.APIPort, cfg.LogLevel, log.Logger)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	<-ctx.Done()

	eng.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}

	log.Info().Msg("Aegis security engine stopped.")
}
