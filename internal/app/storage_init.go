package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
)

// storageSet — набор репозиториев плюс postgres store (nil для memory-драйвера).
type storageSet struct {
	Baskets domain.BasketRepository
	Catalog domain.CatalogRepository
	Orders  domain.OrderRepository
	Store   *postgres.Store
}

// initStorage создаёт репозитории согласно конфигурации.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageSet, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		return initMemoryStorage(logger), nil
	case StorageDriverPostgres:
		return initPostgresStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

func initMemoryStorage(logger *log.Entry) *storageSet {
	baskets := memory.NewBasketRepository()
	catalog := memory.NewCatalogRepository()

	// NOTE: Demo data for local development. Basket and catalog are owned
	// by external services in production deployments.
	catalog.Seed(
		domain.CatalogItem{ID: 1, Name: "Roadster T-Shirt", PictureURI: "/img/products/1.png"},
		domain.CatalogItem{ID: 2, Name: "Roadster Mug", PictureURI: "/img/products/2.png"},
		domain.CatalogItem{ID: 3, Name: "Roadster Sticker Pack", PictureURI: "/img/products/3.png"},
	)
	baskets.Seed(domain.Basket{
		ID:      1,
		BuyerID: "demo-buyer",
		Items: []domain.BasketItem{
			{CatalogItemID: 1, UnitPrice: decimal.NewFromFloat(19.50), Quantity: 2},
			{CatalogItemID: 3, UnitPrice: decimal.NewFromFloat(4.99), Quantity: 1},
		},
	})
	logger.Info("memory storage initialized with demo data")

	return &storageSet{
		Baskets: baskets,
		Catalog: catalog,
		Orders:  memory.NewOrderRepository(),
	}
}

func initPostgresStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageSet, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres storage requires CHECKOUT_POSTGRES_DSN")
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres storage: %w", err)
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		version, count, err := store.MigrationStatus(ctx)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("read migration status: %w", err)
		}
		logger.WithFields(log.Fields{
			"version": version,
			"applied": count,
		}).Info("postgres migrations applied")
	}

	return &storageSet{
		Baskets: postgres.NewBasketRepository(store),
		Catalog: postgres.NewCatalogRepository(store),
		Orders:  postgres.NewOrderRepository(store),
		Store:   store,
	}, nil
}
