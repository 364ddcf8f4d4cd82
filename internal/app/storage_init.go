package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/postgres"
	"github.com/vladislavdragonenkov/orderflow/internal/storage/redis"
)

// storageBackend репозитории выбранного драйвера и его служебные функции.
type storageBackend struct {
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	ping     func(ctx context.Context) error
	close    func() error
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageBackend, error) {
	storageLogger := logger.WithField("storage", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		return &storageBackend{
			orders:   memory.NewOrderRepository(storageLogger),
			timeline: memory.NewTimelineRepository(),
			ping:     func(context.Context) error { return nil },
			close:    func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
			storageLogger.Info("postgres migrations applied")
		}
		return &storageBackend{
			orders:   postgres.NewOrderRepository(store, storageLogger),
			timeline: postgres.NewTimelineRepository(store),
			ping:     store.Ping,
			close:    store.Close,
		}, nil

	case StorageDriverRedis:
		repo, err := redis.NewOrderRepository(redis.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, storageLogger)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		// Timeline в Redis не хранится: события живут в памяти процесса.
		return &storageBackend{
			orders:   repo,
			timeline: memory.NewTimelineRepository(),
			ping:     repo.Ping,
			close:    repo.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
