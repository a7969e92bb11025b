package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	scenarioKeyPrefix = "deal-underwriter:scenario:"
	scenarioIndexKey  = "deal-underwriter:scenarios"
)

// RedisStore persists scenarios as JSON values keyed by ID, with a set
// index for listing.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a store to the given redis address and database.
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, scenario *Scenario) error {
	stamp(scenario)
	data, err := json.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("failed to serialize scenario %s: %w", scenario.ID, err)
	}
	if err := s.client.Set(ctx, scenarioKeyPrefix+scenario.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write scenario %s: %w", scenario.ID, err)
	}
	if err := s.client.SAdd(ctx, scenarioIndexKey, scenario.ID).Err(); err != nil {
		return fmt.Errorf("failed to index scenario %s: %w", scenario.ID, err)
	}
	return nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) (*Scenario, error) {
	data, err := s.client.Get(ctx, scenarioKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read scenario %s: %w", id, err)
	}
	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", id, err)
	}
	return &scenario, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]Scenario, error) {
	ids, err := s.client.SMembers(ctx, scenarioIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	var out []Scenario
	for _, id := range ids {
		scenario, err := s.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Index entry outlived its value; skip it.
				continue
			}
			return nil, err
		}
		out = append(out, *scenario)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	return out, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, scenarioKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	if err := s.client.SRem(ctx, scenarioIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to unindex scenario %s: %w", id, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
