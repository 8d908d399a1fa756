// Command webhook-init manages the bot's Telegram webhook registration.
// Run it once after deploying to point Telegram at the webhook server,
// or with -delete / -info to inspect and clear the registration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"chitieu/internal/cli"
	"chitieu/internal/telegram"
)

func main() {
	deleteHook := flag.Bool("delete", false, "remove the registered webhook")
	showInfo := flag.Bool("info", false, "print the current webhook registration")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.RequireTelegram(); err != nil {
		logger.Error("Telegram configuration incomplete", "error", err)
		os.Exit(1)
	}

	tg := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *showInfo:
		info, err := tg.GetWebhookInfo(ctx)
		if err != nil {
			logger.Error("Failed to fetch webhook info", "error", err)
			os.Exit(1)
		}
		fmt.Printf("URL:             %s\n", info.URL)
		fmt.Printf("Pending updates: %d\n", info.PendingUpdates)
		if info.LastErrorDate != 0 {
			fmt.Printf("Last error:      %s (%s)\n",
				info.LastErrorReason,
				time.Unix(info.LastErrorDate, 0).Format(time.RFC3339))
		}

	case *deleteHook:
		if err := tg.DeleteWebhook(ctx); err != nil {
			logger.Error("Failed to delete webhook", "error", err)
			os.Exit(1)
		}
		logger.Info("Webhook deleted")

	default:
		if cfg.TelegramWebhookURL == "" {
			logger.Error("Set TELEGRAM_WEBHOOK_URL to register the webhook")
			os.Exit(1)
		}
		if err := tg.SetWebhook(ctx, cfg.TelegramWebhookURL); err != nil {
			logger.Error("Failed to set webhook", "error", err)
			os.Exit(1)
		}
		logger.Info("Webhook registered", "url", cfg.TelegramWebhookURL)
	}
}
