package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FVLArchive/qwatch/pkg/config"
	"github.com/FVLArchive/qwatch/pkg/fulfillment"
	"github.com/FVLArchive/qwatch/pkg/logger"
	"github.com/FVLArchive/qwatch/pkg/notify"
	"github.com/FVLArchive/qwatch/pkg/queue"
	"github.com/FVLArchive/qwatch/pkg/settings"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fulfillment webhook service",
	Long:  "Runs the Qwatch fulfillment webhook with health and readiness endpoints.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.serve")

		provider := settings.NewMemoryStore()

		backend, err := queueBackend(cfg, provider)
		if err != nil {
			log.Error("Queue configuration invalid", "error", err)
			return
		}

		catalog, err := queue.LoadCatalog(cfg.Stores.CatalogPath)
		if err != nil {
			log.Error("Failed to load store catalog", "error", err)
			return
		}

		var notifier notify.Sender = notify.Disabled{}
		if cfg.Notifications.Enabled {
			notifier = notify.NewHTTPSender(cfg.Notifications, log)
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := fulfillment.NewService(cfg, provider, backend, catalog, notifier, log)
		if err != nil {
			log.Error("Failed to initialize fulfillment service", "error", err)
			return
		}

		log.Info("Fulfillment started", "queue_backend", cfg.Queue.Backend, "stores", len(catalog.Stores()), "notifications", cfg.Notifications.Enabled)
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Fulfillment runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func queueBackend(cfg *config.Config, provider settings.Provider) (queue.Backend, error) {
	switch cfg.Queue.Backend {
	case "", config.QueueBackendMemory:
		return queue.NewMemoryBackend(), nil
	case config.QueueBackendSettings:
		return queue.NewSettingsBackend(provider), nil
	default:
		return nil, fmt.Errorf("unsupported queue backend %q", cfg.Queue.Backend)
	}
}
