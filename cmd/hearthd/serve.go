package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearth-im/hearth/config"
	hearthhttp "github.com/hearth-im/hearth/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the homeserver",
	Long: `Start the hearth homeserver. All configured databases are
provisioned eagerly so that misconfiguration fails at startup rather than
on the first request.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8008, "admin HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx = config.WithContext(ctx, cfg)

	section, err := config.ResolveDatabases(cfg, resolveOptions(cmd, cfg))
	if err != nil {
		return fmt.Errorf("resolve database config: %w", err)
	}

	slog.Info("database section resolved",
		"databases", len(section.Databases),
		"event_cache_size", section.EventCacheSize)

	databases := make([]hearthhttp.Database, 0, len(section.Databases))
	for _, db := range section.Databases {
		if _, err := db.Pool(ctx); err != nil {
			return fmt.Errorf("provision database %s: %w", db.Name(), err)
		}
		slog.Info("database ready",
			"db", db.Name(), "backend", db.Kind(), "data_stores", db.DataStores())
		databases = append(databases, db)
	}

	handler := hearthhttp.NewHandler(&hearthhttp.HandlerConfig{CORS: cfg.CORS}, databases)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting admin server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
