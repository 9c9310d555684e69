package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/saqibullah/heart-disease-predictor/api"
	"github.com/saqibullah/heart-disease-predictor/config"
	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
	"github.com/saqibullah/heart-disease-predictor/internal/features"
	"github.com/saqibullah/heart-disease-predictor/internal/i18n"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (overrides PORT env var)")
}

func runServer(cmd *cobra.Command) error {
	config.InitLogger()
	slog.Info("Starting application", "version", version)

	cfg := loadConfig(cmd)
	slog.Info("Configuration loaded successfully",
		"server_port", cfg.Server.Port,
		"gin_mode", cfg.Server.Mode,
		"models_dir", cfg.Models.Dir,
		"translation", cfg.Translate.URL != "",
	)

	registry, err := classifier.LoadRegistry(cfg.Models.Dir, features.Count)
	if err != nil {
		slog.Error("Failed to load models", "error", err)
		return fmt.Errorf("load models: %w", err)
	}
	slog.Info("Models loaded", "models", registry.IDs())

	translator := i18n.NewTranslator(i18n.ClientConfig{
		URL:     cfg.Translate.URL,
		APIKey:  cfg.Translate.APIKey,
		Timeout: cfg.Translate.Timeout,
		Retries: cfg.Translate.Retries,
	})

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(registry, translator), api.RouterConfig{
		FrontendURL:   cfg.Server.FrontendURL,
		SessionSecret: cfg.Server.SessionSecret,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(server, errCh)
}

func waitForShutdown(server *http.Server, errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Failed to start server", "error", err)
		return err
	case <-quit:
	}
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server gracefully stopped")
	return nil
}
