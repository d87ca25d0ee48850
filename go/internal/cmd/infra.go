package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/config"
	"github.com/mcdev12/pronos/go/internal/lock"
	"github.com/mcdev12/pronos/go/internal/outbox"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/mcdev12/pronos/go/internal/store/memory"
	"github.com/mcdev12/pronos/go/internal/store/postgres"
	"github.com/rs/zerolog/log"
)

// Infra holds the connections chosen by the store and lock drivers.
type Infra struct {
	DB     store.DB
	Locker lock.Locker
	Outbox outbox.Repository

	sqlDB *sql.DB
	// closers run in reverse order on Close
	closers []func() error
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		infra.closers = append(infra.closers, database.Close)
		if err := postgres.Migrate(ctx, database); err != nil {
			infra.Close()
			return nil, err
		}
		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("connected to database")
		infra.sqlDB = database
		infra.DB = postgres.New(database)
		infra.Outbox = outbox.NewPostgresRepository(database)
	default:
		infra.DB = memory.New()
		infra.Outbox = outbox.NewMemoryRepository()
	}

	switch cfg.LockDriver {
	case config.DriverRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.closers = append(infra.closers, client.Close)
		rc := lock.DefaultRedisConfig()
		rc.Wait = cfg.Lock.Wait
		rc.TTL = cfg.Lock.TTL
		infra.Locker = lock.NewRedisLocker(client, clockwork.NewRealClock(), rc)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	default:
		infra.Locker = lock.NewMemoryLocker(clockwork.NewRealClock(), cfg.Lock.Wait)
	}

	return infra, nil
}

func (i *Infra) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			log.Error().Err(err).Msg("failed to close connection")
		}
	}
	i.closers = nil
}

// setupRelay picks the outbox transport: JetStream when NATS_URL is set,
// the log otherwise. LISTEN/NOTIFY is only available on Postgres.
func setupRelay(ctx context.Context, cfg config.Config, infra *Infra, clock clockwork.Clock) (*outbox.Relay, error) {
	rc := outbox.DefaultRelayConfig()
	rc.DatabaseURL = cfg.Database.DSN()
	rc.FallbackInterval = cfg.Outbox.FallbackInterval
	rc.BatchSize = cfg.Outbox.BatchSize
	rc.MaxRetries = cfg.Outbox.MaxRetries
	rc.RetryDelay = cfg.Outbox.RetryDelay

	var publisher outbox.Publisher = outbox.LogPublisher{}
	if cfg.NATSURL != "" {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		infra.closers = append(infra.closers, js.Close)
		publisher = js
	}

	var notes outbox.Notifications
	if infra.sqlDB != nil {
		l, err := outbox.Listen(rc)
		if err != nil {
			return nil, err
		}
		// the relay closes the listener when it stops
		notes = l
	}

	return outbox.NewRelay(infra.Outbox, notes, publisher, clock, rc), nil
}
