// Package redis stores slots in Redis through the gofiber storage driver.
package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	fiberredis "github.com/gofiber/storage/redis/v3"
)

const dialTimeout = 2 * time.Second

type Config struct {
	Host     string
	Port     int
	Password string
	Database int
}

type SlotStorage struct {
	storage *fiberredis.Storage
}

// New connects to Redis. The driver panics when the server is unreachable,
// so reachability is checked first.
func New(cfg Config) (*SlotStorage, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not reach redis at %s: %w", addr, err)
	}
	conn.Close()

	return &SlotStorage{
		storage: fiberredis.New(fiberredis.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			Database: cfg.Database,
		}),
	}, nil
}

// Get returns nil when the key does not exist.
func (s *SlotStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.storage.GetWithContext(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("could not get slot: %w", err)
	}
	return value, nil
}

// Set stores the value without expiration.
func (s *SlotStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.storage.SetWithContext(ctx, key, value, 0); err != nil {
		return fmt.Errorf("could not set slot: %w", err)
	}
	return nil
}

func (s *SlotStorage) Delete(ctx context.Context, key string) error {
	if err := s.storage.DeleteWithContext(ctx, key); err != nil {
		return fmt.Errorf("could not delete slot: %w", err)
	}
	return nil
}

func (s *SlotStorage) Close() error {
	return s.storage.Close()
}
