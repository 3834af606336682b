package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"producthub/internal/config"
	"producthub/pkg/mongodb"
)

// Open connects the product store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (ProductRepository, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, mongodb.Config{
			URI:              cfg.MongoURI,
			Database:         cfg.MongoDatabase,
			OperationTimeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return NewMongoProductRepository(client, cfg.MongoCollection), nil

	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DatabaseDSN))

	case config.DriverSQLite:
		return openGORM(sqliteDialector(cfg.DatabaseDSN))

	case config.DriverMemory:
		zap.L().Warn("Using the in-memory product store; data is lost on exit")
		return NewMemoryProductRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openGORM(dialector gorm.Dialector) (*GORMProductRepository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialector.Name(), err)
	}
	repo := NewGORMProductRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	zap.L().Info("Database connection established", zap.String("driver", dialector.Name()))
	return repo, nil
}
