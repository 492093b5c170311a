// Package cache keeps read-mostly restaurant records in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/cimillas/table-reservations/internal/domain"
)

const keyPrefix = "restaurant:"

// RestaurantSource is the store the cache reads through to.
type RestaurantSource interface {
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RestaurantCache is a read-through cache in front of a RestaurantSource.
// Redis failures fall back to the source; they are logged, not returned.
type RestaurantCache struct {
	client redisClient
	source RestaurantSource
	ttl    time.Duration
	logger *zap.Logger
}

func NewRestaurantCache(client redisClient, source RestaurantSource, ttl time.Duration, logger *zap.Logger) *RestaurantCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RestaurantCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

type cachedRestaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RestaurantCache) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	key := keyPrefix + id

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedRestaurant
		if err := json.Unmarshal(raw, &c); err == nil {
			return domain.Restaurant{
				ID:        c.ID,
				Name:      c.Name,
				Window:    domain.OperatingWindow{OpenHour: c.OpenHour, CloseHour: c.CloseHour},
				CreatedAt: c.CreatedAt,
			}, nil
		}
		r.logger.Warn("discarding malformed cached restaurant", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("restaurant cache read failed", zap.String("key", key), zap.Error(err))
	}

	restaurant, err := r.source.GetRestaurant(ctx, id)
	if err != nil {
		return domain.Restaurant{}, err
	}

	payload, err := json.Marshal(cachedRestaurant{
		ID:        restaurant.ID,
		Name:      restaurant.Name,
		OpenHour:  restaurant.Window.OpenHour,
		CloseHour: restaurant.Window.CloseHour,
		CreatedAt: restaurant.CreatedAt,
	})
	if err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("restaurant cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return restaurant, nil
}
