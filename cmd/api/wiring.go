package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// storage lo que el resto de la aplicación necesita del almacenamiento elegido.
type storage struct {
	txRunner     inventory.TxRunner
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Ledger.Storage {
	case config.StorageMemory:
		store := memory.NewStore(cfg.Ledger.LockTimeout)
		if cfg.Ledger.CatalogFile != "" {
			products, warehouses, err := memory.LoadCatalog(store, cfg.Ledger.CatalogFile)
			if err != nil {
				return nil, err
			}
			log.Info().
				Str("file", cfg.Ledger.CatalogFile).
				Int("products", products).
				Int("warehouses", warehouses).
				Msg("catálogo cargado")
		}
		return &storage{
			txRunner:     memory.NewTxRunner(store),
			stockRepo:    store.StockRepository(),
			productRepo:  store.ProductRepository(),
			movementRepo: store.MovementRepository(),
			close:        func() {},
		}, nil

	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgresStorage(pool, cfg, log), nil
	}
}

func postgresStorage(pool *pgxpool.Pool, cfg *config.Config, log *logger.Logger) *storage {
	return &storage{
		txRunner:     postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout, cfg.Ledger.MaxRetries, log.Component("tx")),
		stockRepo:    postgres.NewStockRepository(pool),
		productRepo:  postgres.NewProductRepository(pool),
		movementRepo: postgres.NewStockMovementRepository(pool),
		close:        pool.Close,
	}
}

// newPublisher arma el destino de las alertas y, si hay Redis, la deduplicación por ventana.
func newPublisher(ctx context.Context, cfg config.AlertsConfig, log *logger.Logger) (notify.Publisher, error) {
	var pub notify.Publisher
	switch cfg.Driver {
	case config.AlertsKafka:
		pub = notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case config.AlertsRabbitMQ:
		rmq, err := notify.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, err
		}
		pub = rmq
	default:
		pub = notify.NewLogPublisher(log)
	}

	if cfg.RedisAddr == "" {
		return pub, nil
	}
	rdb, err := notify.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("redis de alertas: %w", err)
	}
	return notify.NewCooldownPublisher(pub, rdb, cfg.Cooldown, log), nil
}
