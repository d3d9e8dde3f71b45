package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
)

// Key is the fixed name the whole document lives under.
const Key = "bakery-settings"

// Store persists the settings document as one JSON blob in Redis.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Load returns the saved document, or the defaults when nothing was
// saved yet or the saved blob does not parse.
func (s *Store) Load(ctx context.Context) (*Settings, error) {
	val, err := s.rdb.Get(ctx, Key).Result()
	if errors.Is(err, redis.Nil) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := json.Unmarshal([]byte(val), settings); err != nil {
		return Default(), nil
	}
	return settings, nil
}

func (s *Store) Save(ctx context.Context, settings *Settings) error {
	blob, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, Key, blob, 0).Err()
}
