// cmd/order-server/storage.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"rank-boost/internal/api"
	"rank-boost/internal/common/config"
	"rank-boost/internal/common/database"
	"rank-boost/internal/orderstore"
)

type storage struct {
	repo  orderstore.Repository
	ready api.ReadinessCheck
	close func() error
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// openStorage builds the repository selected by storage.driver.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		repo, err := orderstore.NewFileRepository(cfg.Storage.OrdersDir)
		if err != nil {
			return nil, err
		}
		log.Info("Using file order storage", zap.String("dir", repo.Dir()))
		return &storage{
			repo: repo,
			ready: func(context.Context) error {
				_, err := os.Stat(repo.Dir())
				return err
			},
		}, nil

	case config.DriverPebble:
		repo, err := orderstore.NewPebbleRepository(cfg.Storage.PebbleDir)
		if err != nil {
			return nil, err
		}
		log.Info("Using pebble order storage", zap.String("dir", cfg.Storage.PebbleDir))
		return &storage{repo: repo}, nil

	case config.DriverRedis:
		var client *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			client, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				client.Close()
				return err
			}
			return nil
		}, 10, time.Second, log, "Redis connection")
		if err != nil {
			return nil, err
		}
		log.Info("Using redis order storage", zap.String("address", cfg.Database.Redis.Address))
		return &storage{
			repo:  orderstore.NewRedisRepository(client.Client, cfg.Storage.KeyPrefix),
			ready: client.Ping,
			close: client.Close,
		}, nil

	case config.DriverPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}

		repo, err := orderstore.NewPostgresRepository(pg.DB, cfg.Storage.Table)
		if err != nil {
			pg.Close()
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		log.Info("Using postgres order storage", zap.String("table", cfg.Storage.Table))
		return &storage{repo: repo, ready: pg.Ping, close: pg.Close}, nil

	default:
		return nil, fmt.Errorf("storage.driver %q is not supported", cfg.Storage.Driver)
	}
}
