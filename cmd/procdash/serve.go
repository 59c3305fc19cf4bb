package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
	"github.com/procurement-tools/procdash/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Duration("session-ttl", 2*time.Hour, "idle lifetime of upload sessions")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("session_ttl", cmd.Flags().Lookup("session-ttl"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	store, err := config.Open(ctx, viper.GetString("db"), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(ctx, server.Options{
		Addr:       viper.GetString("addr"),
		SessionTTL: viper.GetDuration("session_ttl"),
	}, store, logger)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("stopped")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}
