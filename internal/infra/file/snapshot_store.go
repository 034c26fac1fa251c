package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// SnapshotStore persists full game-state snapshots to a JSON file and can
// reconstruct a board plus prior scores for recover mode.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Save writes the snapshot, creating the data directory if needed.
func (s *SnapshotStore) Save(_ context.Context, state domain.GameState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	log.Printf("saving game state to %s", s.path)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write game state: %w", err)
	}
	return nil
}

// Load reads the last persisted snapshot.
func (s *SnapshotStore) Load(_ context.Context) (domain.GameState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.GameState{}, fmt.Errorf("read game state: %w", err)
	}
	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.GameState{}, fmt.Errorf("unmarshal game state: %w", err)
	}
	return state, nil
}
