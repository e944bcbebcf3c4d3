package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/go-storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/go-storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-storefront/internal/infrastructure/kafka"
	"github.com/DRSN-tech/go-storefront/internal/infrastructure/remote"
	"github.com/DRSN-tech/go-storefront/internal/repository/boltdb"
	"github.com/DRSN-tech/go-storefront/internal/repository/cache"
	s3Repo "github.com/DRSN-tech/go-storefront/internal/repository/minio"
	"github.com/DRSN-tech/go-storefront/internal/repository/pgdb"
	"github.com/DRSN-tech/go-storefront/internal/repository/redis"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/internal/usecase"
	"github.com/DRSN-tech/go-storefront/pkg/clients"
	"github.com/DRSN-tech/go-storefront/pkg/closer"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/jitter"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/DRSN-tech/go-storefront/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	connectAttempts = 5
	connectBase     = 200 * time.Millisecond
	connectMax      = 5 * time.Second
	startupTimeout  = 30 * time.Second
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	closer  *closer.Closer
}

// NewApp собирает приложение: открывает и мигрирует локальный кэш, создаёт Store,
// политику синхронизации и HTTP-сервер. Ресурсы регистрируются в closer.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cl := closer.NewCloser(0)

	engine, err := initCacheEngine(ctx, cfg, logger)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("cache engine", func(context.Context) error { return engine.Close() })

	if err := engine.Migrate(ctx, cfg.Cache.SchemaVersion); err != nil {
		_ = cl.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	logger.Infof("cache %q ready: driver %s, schema version %d", cfg.Cache.DBName, cfg.Cache.Driver, cfg.Cache.SchemaVersion)

	store := state.NewStore(logger, state.WithStrict(cfg.App.IsStrict()))
	cacheRepo := cache.NewCacheRepo(engine)
	remoteClient := remote.NewGraphQLClient(nil, cfg.Remote)

	policy := usecase.NewSyncPolicy(store, remoteClient, cacheRepo, cfg.Sync, logger)
	cl.Add("cache write-through", policy.Wait)

	images, err := initImageLinker(cfg)
	if err != nil {
		_ = cl.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(logger, cfg.Kafka)
		unsubscribe := store.Subscribe(producer.OnDispatch)
		cl.Add("kafka producer", func(context.Context) error {
			unsubscribe()
			return producer.Close()
		})
		logger.Infof("cart events are published to %s", cfg.Kafka.Topic)
	}

	catalogUC := usecase.NewCatalogUseCase(policy, store, images, logger)
	cartUC := usecase.NewCartUseCase(policy, store, cacheRepo)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(catalogUC, cartUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add("http server", httpSrv.Stop)

	return &App{
		cfg:     cfg,
		logger:  logger,
		httpSrv: httpSrv,
		closer:  cl,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

// initCacheEngine открывает движок локального кэша по CACHE_DRIVER.
// Подключение к Redis и PostgreSQL повторяется с экспоненциальной задержкой.
func initCacheEngine(ctx context.Context, cfg *config.Config, logger logger.Logger) (cache.Engine, error) {
	switch cfg.Cache.Driver {
	case config.CacheDriverBolt:
		db, err := clients.NewBoltClient(cfg.Cache)
		if err != nil {
			return nil, err
		}
		return boltdb.NewCacheEngine(db), nil

	case config.CacheDriverRedis:
		client := clients.NewRedisClient(cfg.Redis)
		err := jitter.Retry(ctx, connectAttempts, connectBase, connectMax, func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				logger.Warnf("redis is not ready: %v", err)
				return err
			}
			return nil
		})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return redis.NewCacheEngine(client, cfg.Cache.DBName), nil

	case config.CacheDriverPostgres:
		var db *postgres.PgDatabase
		err := jitter.Retry(ctx, connectAttempts, connectBase, connectMax, func(ctx context.Context) error {
			var err error
			if db, err = postgres.Connect(ctx, cfg.Db); err != nil {
				logger.Warnf("postgres is not ready: %v", err)
				return err
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return pgdb.NewCacheEngine(db, logger), nil

	default:
		return nil, e.Wrap(fmt.Sprintf("CACHE_DRIVER=%s", cfg.Cache.Driver), e.ErrUnsupportedCacheDriver)
	}
}

// initImageLinker возвращает nil, если MinIO не настроен: ссылки отдаются как есть.
func initImageLinker(cfg *config.Config) (usecase.ImageLinker, error) {
	if !cfg.Minio.Enabled() {
		return nil, nil
	}

	mc, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, err
	}

	return s3Repo.NewImageRepo(mc, cfg.Minio), nil
}
