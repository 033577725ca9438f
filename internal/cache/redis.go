package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/dialog"
	"github.com/avikulin/flightbot/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores in-flight booking sessions between turns and caches
// the flight catalog. Sessions expire via TTL; there is no explicit
// dialog-level timeout.
type RedisCache struct {
	client     *redis.Client
	sessionTTL time.Duration
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, sessionTTL, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
		flightsTTL: flightsTTL,
	}
}

// GetSession returns nil without error when no session exists for the
// conversation.
func (c *RedisCache) GetSession(ctx context.Context, conversationID string) (*dialog.BookingSession, error) {
	data, err := c.client.Get(ctx, sessionKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var sess dialog.BookingSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *RedisCache) SetSession(ctx context.Context, sess *dialog.BookingSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(sess.ConversationID), payload, c.sessionTTL).Err()
}

func (c *RedisCache) DeleteSession(ctx context.Context, conversationID string) error {
	return c.client.Del(ctx, sessionKey(conversationID)).Err()
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.FlightOffer, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightOffer
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.FlightOffer) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func sessionKey(conversationID string) string {
	return fmt.Sprintf("session:conversation:%s", conversationID)
}
