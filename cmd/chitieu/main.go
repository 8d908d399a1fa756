package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chitieu/internal/backend"
	"chitieu/internal/bot"
	"chitieu/internal/cache"
	"chitieu/internal/cli"
	apphttp "chitieu/internal/http"
	"chitieu/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.RequireTelegram(); err != nil {
		logger.Error("Telegram configuration incomplete", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Sanity read so a mispointed backend shows up at startup, not on the
	// first report.
	if rows, err := result.Store.ReadRows(ctx); err != nil {
		logger.Warn("Ledger read check failed", "error", err)
	} else {
		logger.Info("Ledger reachable", "rows", len(rows))
	}

	tg := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID)
	processor := bot.NewProcessor(result.Store, tg)

	// Periodic cleanup for the report totals cache.
	cacheManager := cache.NewManager()
	cacheManager.Register(processor.TotalsCache())
	cacheManager.StartCleanup(10 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, processor)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		cacheManager.Stop()

		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
		cancel()
	}()

	logger.Info("Starting chitieu webhook server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"chat_id", cfg.TelegramChatID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
