package app

import (
	"errors"

	"ymph-crud/internal/config"
	"ymph-crud/internal/employee"
	"ymph-crud/internal/messaging/kafka/producer"
	"ymph-crud/internal/product"
	"ymph-crud/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ServiceName = "ymph-crud"

type App struct {
	Router  *gin.Engine
	closers []func() error
}

// BuildApp connects the infrastructure named in cfg and wires every module.
// Redis and Kafka are optional; without them caching and event publishing
// are disabled.
func BuildApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sqlDB.Close)

	if cfg.DB.AutoMigrate {
		if err := Migrate(gormDB); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("schema migrated")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, cfg.DB.ConnectRetries)
	if err != nil {
		a.Close()
		return nil, err
	}
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
	} else {
		logger.Warn("REDIS_ADDR not set, caching and idempotency disabled")
	}

	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka, cfg.DB.ConnectRetries)
	if err != nil {
		a.Close()
		return nil, err
	}
	if writer != nil {
		a.closers = append(a.closers, writer.Close)
	} else {
		logger.Warn("KAFKA_BROKER not set, lifecycle events disabled")
	}
	publisher := producer.NewPublisher(writer, cfg.Kafka.Topic)

	// 2. Router & Modules
	a.Router = NewRouter(cfg, logger, gormDB, rdb, publisher)

	return a, nil
}

// Migrate creates or updates the employees and products tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&employee.Employee{}, &product.Product{})
}

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
