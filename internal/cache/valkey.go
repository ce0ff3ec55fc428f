package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"eventro/internal/models"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis/Valkey address is configured
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// ValkeyClient кэширует события и профили (Redis/Valkey протокол)
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

func EventKey(id int64) string {
	return "event:" + strconv.FormatInt(id, 10)
}

func ProfileKey(id string) string {
	return "profile:" + id
}

// GetEvent returns nil, nil on a cache miss
func (v *ValkeyClient) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	found, err := v.get(ctx, EventKey(id), &event)
	if err != nil || !found {
		return nil, err
	}
	return &event, nil
}

func (v *ValkeyClient) SetEvent(ctx context.Context, event *models.Event) error {
	return v.set(ctx, EventKey(event.ID), event)
}

func (v *ValkeyClient) DeleteEvent(ctx context.Context, id int64) error {
	return v.client.Del(ctx, EventKey(id)).Err()
}

// GetProfile returns nil, nil on a cache miss
func (v *ValkeyClient) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	found, err := v.get(ctx, ProfileKey(id), &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

func (v *ValkeyClient) SetProfile(ctx context.Context, profile *models.Profile) error {
	return v.set(ctx, ProfileKey(profile.ID), profile)
}

func (v *ValkeyClient) DeleteProfile(ctx context.Context, id string) error {
	return v.client.Del(ctx, ProfileKey(id)).Err()
}

func (v *ValkeyClient) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := v.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache lookup error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("invalid cache entry %s: %w", key, err)
	}
	return true, nil
}

func (v *ValkeyClient) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return v.client.Set(ctx, key, data, v.ttl).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
