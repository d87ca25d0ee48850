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
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/config"
	"github.com/mcdev12/pronos/go/internal/seed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("graceful shutdown complete")
}

func run(ctx context.Context, cfg config.Config) error {
	clock := clockwork.NewRealClock()

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	if cfg.SeedFixture != "" {
		fx, err := seed.LoadFixture(cfg.SeedFixture)
		if err != nil {
			return err
		}
		if _, err := seed.Apply(ctx, infra.DB, fx, clock.Now()); err != nil {
			return fmt.Errorf("failed to apply fixture: %w", err)
		}
	}

	services := setupServices(cfg, infra, clock)
	relay, err := setupRelay(ctx, cfg, infra, clock)
	if err != nil {
		return err
	}
	server := setupServer(cfg, services)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("store", cfg.StoreDriver).Str("lock", cfg.LockDriver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := services.Orchestrator.Recover(gctx); err != nil {
			log.Error().Err(err).Msg("failed to recover running drafts")
		}
		return services.Orchestrator.Run(gctx)
	})
	g.Go(func() error {
		return relay.Run(gctx)
	})
	return g.Wait()
}
