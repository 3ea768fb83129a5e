package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	prefsKeyPrefix = "prefs:"
	prefsTTL       = 365 * 24 * time.Hour
)

type RedisPrefStore struct {
	client *redis.Client
}

func NewRedisPrefStore(client *redis.Client) *RedisPrefStore {
	return &RedisPrefStore{client: client}
}

func (s *RedisPrefStore) Load(ctx context.Context, sid string) (Preferences, error) {
	raw, err := s.client.Get(ctx, prefsKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, err
	}

	var p Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *RedisPrefStore) Save(ctx context.Context, sid string, p Preferences) error {
	if sid == "" {
		return ErrNoSession
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, prefsKeyPrefix+sid, raw, prefsTTL).Err()
}

func (s *RedisPrefStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
