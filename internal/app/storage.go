package app

import (
	"fmt"

	"github.com/agalitsyn/secret"

	"github.com/agalitsyn/taskflow/internal/model"
	"github.com/agalitsyn/taskflow/internal/storage/memory"
	"github.com/agalitsyn/taskflow/internal/storage/redis"
	"github.com/agalitsyn/taskflow/internal/storage/sqlite"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type StorageConfig struct {
	Driver string
	Key    string

	SQLite struct {
		Path string
	}

	Redis struct {
		Host     string
		Port     int
		Password secret.String
		Database int
	}
}

// OpenStorage returns the key-value backend selected by cfg.Driver.
func OpenStorage(cfg StorageConfig) (model.KeyValueStorage, error) {
	switch cfg.Driver {
	case StorageSQLite:
		db, err := sqlite.Connect(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}
		return sqlite.NewSlotStorage(db), nil
	case StorageRedis:
		s, err := redis.New(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password.Unmask(),
			Database: cfg.Redis.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("could not open redis storage: %w", err)
		}
		return s, nil
	case StorageMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
