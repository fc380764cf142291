package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/skate-fantasy/internal/config"
	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/account/anubis"
	redisstore "github.com/riskibarqy/skate-fantasy/internal/infrastructure/cache/redis"
	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/notify"
	cacherepo "github.com/riskibarqy/skate-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/skate-fantasy/internal/interfaces/httpapi"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/skate-fantasy/internal/platform/id"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

const notificationDrainTimeout = 5 * time.Second

// App holds the HTTP server together with the connections it must release.
type App struct {
	Server  *http.Server
	closers []func() error
}

type repositories struct {
	contests  contest.Repository
	rosters   roster.Repository
	results   scoring.Repository
	standings standing.Repository
	skaters   skater.Repository
	store     roster.Store
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	repos, err := a.openStorage(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	readCache, err := a.openCache(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	loader := cache.NewLoader(readCache)

	rules := scoring.DefaultRules()
	if cfg.ScoringRulesPath != "" {
		rules, err = scoring.LoadRules(cfg.ScoringRulesPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		logger.Info("scoring rules loaded", "path", cfg.ScoringRulesPath)
	}

	sink, err := newNotificationSink(cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	dispatcher := usecase.NewNotificationDispatcher(sink, cfg.NotifyWorkers, logger)
	// Registered last so it runs before storage and cache are closed.
	a.closers = append(a.closers, func() error {
		drainCtx, cancel := context.WithTimeout(context.Background(), notificationDrainTimeout)
		defer cancel()
		return dispatcher.Drain(drainCtx)
	})
	skaters := cacherepo.NewSkaterRepository(repos.skaters, loader)

	rosterSvc := usecase.NewRosterService(repos.contests, repos.rosters, repos.store, logger)
	withdrawalSvc := usecase.NewWithdrawalService(
		repos.rosters,
		repos.store,
		repos.standings,
		loader.Cache(),
		dispatcher,
		idgen.NewUUIDGenerator(),
		cfg.AggregationWorkers,
		logger,
	)
	resultsSvc := usecase.NewResultsService(
		repos.results,
		repos.store,
		repos.standings,
		rules,
		loader,
		cfg.AggregationWorkers,
		logger,
	)
	contestSvc := usecase.NewContestService(repos.contests, skaters, repos.store, logger)
	pricingSvc := usecase.NewPricingService(skaters, repos.store, logger)
	standingSvc := usecase.NewStandingService(repos.standings, loader)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		anubis.Config{
			BaseURL:        cfg.AnubisBaseURL,
			IntrospectPath: cfg.AnubisIntrospectPath,
			AdminKey:       cfg.AnubisAdminKey,
			OperatorRole:   cfg.AnubisOperatorRole,
			TokenCacheTTL:  cfg.AnubisTokenCacheTTL,
			CircuitBreaker: cfg.AnubisCircuit,
		},
		logger,
	)

	handler := httpapi.NewHandler(rosterSvc, withdrawalSvc, resultsSvc, contestSvc, pricingSvc, standingSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		MetricsEnabled:     cfg.MetricsEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return a, nil
}

// Close drains notifications and releases storage and cache connections in
// reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	now := time.Now().UTC()

	if cfg.StorageDriver != config.StoragePostgres {
		seed := memory.Seed{}
		if cfg.SeedDemoData {
			seed = memory.DemoSeed(now)
		}
		store := memory.NewStore(seed)
		logger.Info("storage ready", "driver", config.StorageMemory, "demo_seed", cfg.SeedDemoData)
		return repositories{
			contests:  memory.NewContestRepository(store),
			rosters:   memory.NewRosterRepository(store),
			results:   memory.NewScoringRepository(store),
			standings: memory.NewStandingRepository(store),
			skaters:   memory.NewSkaterRepository(store),
			store:     store,
		}, nil
	}

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, db.Close)

	if cfg.SeedDemoData {
		if err := postgres.BootstrapSeed(ctx, db, now); err != nil {
			return repositories{}, fmt.Errorf("seed demo data: %w", err)
		}
	}
	logger.Info("storage ready", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL), "demo_seed", cfg.SeedDemoData)

	return repositories{
		contests:  postgres.NewContestRepository(db),
		rosters:   postgres.NewRosterRepository(db),
		results:   postgres.NewScoringRepository(db),
		standings: postgres.NewStandingRepository(db),
		skaters:   postgres.NewSkaterRepository(db),
		store:     postgres.NewStore(db),
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(max(cfg.DBMaxOpenConns/2, 1))
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (a *App) openCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Cache, error) {
	if !cfg.CacheEnabled {
		logger.Info("read cache disabled", "reason", "CACHE_ENABLED=false")
		return cache.Nop{}, nil
	}

	if cfg.CacheDriver == config.CacheRedis {
		client, err := redisstore.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		logger.Info("read cache ready", "driver", config.CacheRedis, "ttl", cfg.CacheTTL.String())
		return redisstore.New(client, cfg.CacheTTL, logger), nil
	}

	logger.Info("read cache ready", "driver", config.CacheMemory, "ttl", cfg.CacheTTL.String())
	return cache.NewStore(cfg.CacheTTL), nil
}

func newNotificationSink(cfg config.Config, logger *logging.Logger) (notification.Sink, error) {
	if !cfg.NotifyWebhookEnabled {
		return notify.NewLogSink(logger), nil
	}

	sink, err := notify.NewWebhookSink(notify.WebhookConfig{
		URL:            cfg.NotifyWebhookURL,
		Token:          cfg.NotifyWebhookToken,
		Timeout:        cfg.NotifyWebhookTimeout,
		CircuitBreaker: cfg.NotifyWebhookCircuit,
	}, logger)
	if err != nil {
		return nil, err
	}
	return sink, nil
}
