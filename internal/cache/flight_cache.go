package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	models "github.com/skybook/skybook/internal"
)

// FlightCache keeps flight search results in Redis so repeated searches skip
// the database. A miss returns (nil, nil).
type FlightCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFlightCache(addr, password string, db int, ttl time.Duration) *FlightCache {
	return &FlightCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

func (c *FlightCache) GetFlights(ctx context.Context, key string) ([]models.FlightDetails, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []models.FlightDetails
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *FlightCache) SetFlights(ctx context.Context, key string, flights []models.FlightDetails) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func (c *FlightCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *FlightCache) Close() error {
	return c.client.Close()
}
