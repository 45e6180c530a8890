package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garden-store/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// redisStore implements Store on Redis. Each session cart is one key holding
// the JSON-encoded line list; the TTL is refreshed on every write so idle
// carts eventually expire.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed cart store and verifies connectivity.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration, logger zerolog.Logger) (Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger = logger.With().Str("component", "redis-cart-store").Logger()
	logger.Info().Dur("ttl", ttl).Msg("Redis cart store initialised")

	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// key returns the Redis key for a session cart.
func (s *redisStore) key(sessionID string) string {
	return fmt.Sprintf("garden:cart:%s", sessionID)
}

// Lines returns the cart lines for a session.
func (s *redisStore) Lines(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return []model.CartLine{}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		s.logger.Error().Err(err).Msg("failed to decode cart")
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return lines, nil
}

// Add merges a line into the session cart.
func (s *redisStore) Add(ctx context.Context, sessionID string, line model.CartLine) (model.CartLine, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return model.CartLine{}, err
	}

	lines = mergeLine(lines, line)
	if err := s.save(ctx, sessionID, lines); err != nil {
		return model.CartLine{}, err
	}

	for _, l := range lines {
		if l.ProductID == line.ProductID {
			return l, nil
		}
	}
	return line, nil
}

// Remove drops the line for a product.
func (s *redisStore) Remove(ctx context.Context, sessionID string, productID int64) error {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.save(ctx, sessionID, removeLine(lines, productID))
}

// Clear discards the whole session cart.
func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// save writes the line list back and refreshes the TTL.
func (s *redisStore) save(ctx context.Context, sessionID string, lines []model.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to write cart")
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}
