package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huddlemaps/huddle/backend/internal/config"
	"github.com/huddlemaps/huddle/backend/internal/handler"
	"github.com/huddlemaps/huddle/backend/internal/handler/realtime"
	"github.com/huddlemaps/huddle/backend/internal/handler/stream"
	"github.com/huddlemaps/huddle/backend/internal/logger"
	"github.com/huddlemaps/huddle/backend/internal/service/ai"
	"github.com/huddlemaps/huddle/backend/internal/service/coordinator"
	"github.com/huddlemaps/huddle/backend/internal/service/places"
	"github.com/huddlemaps/huddle/backend/internal/service/search"
	"github.com/huddlemaps/huddle/backend/internal/service/session"
)

type serveOptions struct {
	envFile string
	port    string
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "load environment variables from this file (default .env when present)")
	cmd.Flags().StringVar(&opts.port, "port", "", "listen port or host:port, overrides PORT")
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlag("PORT", cmd.Flags().Lookup("port")); err != nil {
		return fmt.Errorf("failed to bind port flag: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	chatModel, err := ai.NewChatModel(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("failed to create chat model: %w", err)
	}
	aiService, err := ai.NewService(ctx, chatModel, log)
	if err != nil {
		return fmt.Errorf("failed to initialize AI service: %w", err)
	}
	log.Info().Str("provider", cfg.AI.Provider).Msg("AI service initialized")

	placesClient := places.NewClient(places.Config{
		URL:         cfg.Places.URL,
		BearerToken: cfg.Places.BearerToken,
		UserProject: cfg.Places.UserProject,
		Timeout:     cfg.Places.Timeout,
	}, log)

	coord := coordinator.New(aiService, aiService, placesClient, log)

	pool, err := ants.NewPool(cfg.Search.Workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	sessions := session.NewRegistry()
	searches := search.NewRegistry()
	dispatcher := realtime.NewDispatcher(sessions, searches, coord, log)

	router := handler.NewRouter(handler.Dependencies{
		Sessions:       sessions,
		Searches:       searches,
		WebSocket:      realtime.NewWebSocketHandler(dispatcher, pool, cfg.Search.QueueSize, log),
		Places:         coord,
		Stream:         stream.New(coord, aiService, log),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", cfg.Server.Addr).Int("workers", cfg.Search.Workers).Msg("huddle backend listening")
	if err := runServer(ctx, srv, log); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadEnvFile loads path, or .env when path is empty. Only an explicitly
// requested file is required to exist.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func runServer(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
