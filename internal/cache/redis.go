package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warinyupa/stocklens/internal/config"
	"github.com/warinyupa/stocklens/internal/domain"
)

const (
	forecastKeyPrefix = "forecast:plant"
	ledgerKeyPrefix   = "ledger:plant"
	defaultCacheTTL   = 5 * time.Minute
)

// ForecastCache shares computed forecast and ledger payloads across
// processes. The in-process Memo remains the authority for TTL semantics;
// this layer only saves recomputation when several instances serve the same
// facilities.
type ForecastCache interface {
	GetForecast(ctx context.Context, plant string) ([]domain.ForecastItem, bool, error)
	SetForecast(ctx context.Context, plant string, items []domain.ForecastItem) error
	GetLedger(ctx context.Context, plant string) ([]domain.LedgerRow, bool, error)
	SetLedger(ctx context.Context, plant string, rows []domain.LedgerRow) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ForecastTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, plant string) ([]domain.ForecastItem, bool, error) {
	var items []domain.ForecastItem
	ok, err := c.get(ctx, forecastKey(plant), &items)
	return items, ok, err
}

func (c *redisForecastCache) SetForecast(ctx context.Context, plant string, items []domain.ForecastItem) error {
	return c.set(ctx, forecastKey(plant), items)
}

func (c *redisForecastCache) GetLedger(ctx context.Context, plant string) ([]domain.LedgerRow, bool, error) {
	var rows []domain.LedgerRow
	ok, err := c.get(ctx, ledgerKey(plant), &rows)
	return rows, ok, err
}

func (c *redisForecastCache) SetLedger(ctx context.Context, plant string, rows []domain.LedgerRow) error {
	return c.set(ctx, ledgerKey(plant), rows)
}

func (c *redisForecastCache) get(ctx context.Context, key string, target any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return false, fmt.Errorf("decode cached payload: %w", err)
	}
	return true, nil
}

func (c *redisForecastCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopForecastCache) GetForecast(ctx context.Context, plant string) ([]domain.ForecastItem, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecast(ctx context.Context, plant string, items []domain.ForecastItem) error {
	return nil
}

func (n *noopForecastCache) GetLedger(ctx context.Context, plant string) ([]domain.LedgerRow, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetLedger(ctx context.Context, plant string, rows []domain.LedgerRow) error {
	return nil
}

func forecastKey(plant string) string {
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, plant)
}

func ledgerKey(plant string) string {
	return fmt.Sprintf("%s:%s", ledgerKeyPrefix, plant)
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
