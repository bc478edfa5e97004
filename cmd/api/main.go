// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/liftsync/internal/auth"
	"github.com/briangreenhill/liftsync/internal/config"
	"github.com/briangreenhill/liftsync/internal/http/routes"
	"github.com/briangreenhill/liftsync/internal/store"
)

func main() {
	cfg, err := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	logger = logger.Level(cfg.Level())

	secret := cfg.Server.Secret
	if secret == "" {
		secret = "dev-secret"
		logger.Warn().Msg("LIFTSYNC_SERVER_SECRET not set, using an insecure development secret")
	}
	tokens := auth.TokenSigner{Secret: []byte(secret)}

	// Store
	st := store.New()
	if cfg.Server.Seed {
		users, err := store.Seed(st)
		if err != nil {
			logger.Fatal().Err(err).Msg("seed store")
		}
		for _, u := range users {
			logger.Info().
				Str("user", u.Username).
				Str("user_id", u.ID).
				Str("token", tokens.Issue(u.ID, 30*24*time.Hour)).
				Msg("seeded user")
		}
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Store:  st,
		Tokens: tokens,
		Logger: logger,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("starting api server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("listen")
	}
}
