package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"almanah/internal/catalog"
	"almanah/internal/catalog/cache"
	catalogstore "almanah/internal/catalog/store"
	"almanah/internal/ledger/events"
	ledgermetrics "almanah/internal/ledger/metrics"
	"almanah/internal/ledger/models"
	"almanah/internal/ledger/ports"
	memorystore "almanah/internal/ledger/store/memory"
	postgresstore "almanah/internal/ledger/store/postgres"
	"almanah/internal/platform/config"
	"almanah/internal/platform/kafka"
	"almanah/internal/platform/postgres"
	"almanah/internal/platform/redis"
	"almanah/internal/ratelimit/checker"
	ratelimitmetrics "almanah/internal/ratelimit/metrics"
	ratelimitmw "almanah/internal/ratelimit/middleware"
	ratelimitmodels "almanah/internal/ratelimit/models"
	"almanah/internal/ratelimit/store/bucket"
	id "almanah/pkg/domain"
)

const (
	demoTemplates        = 12
	demoCardsPerTemplate = 3
	topicPartitions      = 3
	topicReplication     = 1
)

// demoCardNamespace keeps seeded printed card IDs stable across restarts.
var demoCardNamespace = uuid.MustParse("0d9a3c51-7be2-4c0f-a8d4-5e1f6b2c9a37")

type dependencies struct {
	storage   string
	stores    ports.Stores
	tx        ports.Tx
	catalog   catalog.Reader
	publisher ports.EventPublisher

	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
}

// buildDependencies selects Postgres when a database URL is configured and
// seeded in-memory stores otherwise. Redis and Kafka are optional.
func buildDependencies(ctx context.Context, cfg config.Server, log *slog.Logger, m *ledgermetrics.Metrics) (*dependencies, error) {
	deps := &dependencies{}

	var inner catalog.Reader
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		deps.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			deps.close(log)
			return nil, err
		}
		deps.stores, deps.tx = postgresstore.New(db, cfg.ClaimTxTimeout)
		deps.storage = "postgres"
		inner = catalogstore.NewPostgres(db)
	} else {
		mem := catalogstore.NewInMemory()
		stores, tx := memorystore.New(cfg.ClaimTxTimeout)
		if err := seedDemo(ctx, mem, stores.PrintedCards, log); err != nil {
			return nil, err
		}
		deps.stores, deps.tx = stores, tx
		deps.storage = "memory"
		inner = mem
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	deps.redis = redisClient

	cacheOpts := []cache.Option{cache.WithLogger(log)}
	if redisClient != nil {
		cacheOpts = append(cacheOpts, cache.WithCountCache(cache.NewRedisCounts(redisClient), cfg.CatalogCacheTTL))
	}
	reader, err := cache.New(inner, cfg.CatalogCache, cacheOpts...)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	deps.catalog = reader

	if len(cfg.Kafka.Brokers) == 0 {
		deps.publisher = events.NewLogPublisher(log)
		return deps, nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.OTelServiceName)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	deps.producer = producer
	if err := producer.EnsureTopic(ctx, cfg.Kafka.Topic, topicPartitions, topicReplication); err != nil {
		log.Warn("could not ensure claim topic", "topic", cfg.Kafka.Topic, "error", err)
	}
	deps.publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic,
		events.WithLogger(log),
		events.WithFailureHook(m.IncrementPublishFailure),
	)
	return deps, nil
}

// rateLimiter shares buckets through Redis when it is configured so limits
// hold across replicas.
func (d *dependencies) rateLimiter(cfg config.RateLimitConfig, log *slog.Logger, m *ratelimitmetrics.Metrics) (*ratelimitmw.Middleware, error) {
	var buckets checker.BucketStore = bucket.NewInMemoryBucketStore()
	if d.redis != nil {
		buckets = bucket.NewRedisBucketStore(d.redis.Client)
	}
	opts := []checker.Option{checker.WithLogger(log)}
	if !cfg.Disabled {
		opts = append(opts,
			checker.WithPolicy(ratelimitmodels.ClassClaim, ratelimitmodels.Policy{Limit: cfg.ClaimLimit, Window: cfg.Window}),
			checker.WithPolicy(ratelimitmodels.ClassLookup, ratelimitmodels.Policy{Limit: cfg.LookupLimit, Window: cfg.Window}),
		)
	}
	limits, err := checker.New(buckets, opts...)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return ratelimitmw.New(limits, log,
		ratelimitmw.WithDisabled(cfg.Disabled),
		ratelimitmw.WithMetrics(m),
	), nil
}

// health pings every configured backend.
func (d *dependencies) health(ctx context.Context) error {
	var errs []error
	if d.db != nil {
		if err := d.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if d.redis != nil {
		if err := d.redis.Health(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if d.producer != nil {
		if err := d.producer.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (d *dependencies) close(log *slog.Logger) {
	if d.producer != nil {
		closeWithTimeout(log, "kafka", d.producer.Close)
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("shutdown failed", "component", "redis", "error", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn("shutdown failed", "component", "postgres", "error", err)
		}
	}
}

// seedDemo gives a database-less server a catalog and printed cards to claim.
func seedDemo(ctx context.Context, mem *catalogstore.InMemory, cards ports.PrintedCardStore, log *slog.Logger) error {
	event, templates, err := catalogstore.SeedDemo(ctx, mem, demoTemplates)
	if err != nil {
		return fmt.Errorf("seed demo catalog: %w", err)
	}
	for _, tpl := range templates {
		for n := 1; n <= demoCardsPerTemplate; n++ {
			scanCode := fmt.Sprintf("DEMO-%02d-%d", tpl.Ordinal, n)
			cardID := id.PrintedCardID(uuid.NewSHA1(demoCardNamespace, []byte(scanCode)))
			card, err := models.NewPrintedCard(cardID, tpl.ID, scanCode)
			if err != nil {
				return err
			}
			if err := cards.Create(ctx, card); err != nil {
				return fmt.Errorf("seed printed card %s: %w", scanCode, err)
			}
		}
	}
	log.Info("seeded demo data",
		"event_id", event.ID.String(),
		"templates", len(templates),
		"printed_cards", len(templates)*demoCardsPerTemplate,
	)
	return nil
}
