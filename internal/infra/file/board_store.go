package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
)

// BoardStore reads and writes the question board as a JSON file. This is the
// default backing store; the board editor's save endpoint writes through it.
type BoardStore struct {
	path string
}

func NewBoardStore(path string) *BoardStore {
	return &BoardStore{path: path}
}

// LoadBoard reads the question file and returns its categories.
func (s *BoardStore) LoadBoard(_ context.Context) ([]domain.Category, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("unmarshal board file: %w", err)
	}
	return board.Categories, nil
}

// SaveBoard writes the board back to disk, creating the data directory if
// needed.
func (s *BoardStore) SaveBoard(_ context.Context, board domain.Board) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return nil
}
