package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const snapshotKey = "quizconquest:gamestate"

// SnapshotStore persists game-state snapshots in Redis. A zero TTL keeps the
// snapshot until it is overwritten.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Save(ctx context.Context, state domain.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write game state: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.GameState, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return domain.GameState{}, fmt.Errorf("read game state: %w", err)
	}
	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.GameState{}, fmt.Errorf("unmarshal game state: %w", err)
	}
	return state, nil
}
