package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BoardLoader loads a question board stored as JSONB in Postgres.
type BoardLoader struct {
	pool    *pgxpool.Pool
	boardID string
}

func NewBoardLoader(pool *pgxpool.Pool, boardID string) *BoardLoader {
	return &BoardLoader{pool: pool, boardID: boardID}
}

func (l *BoardLoader) LoadBoard(ctx context.Context) ([]domain.Category, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM boards WHERE id=$1`, l.boardID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	var board domain.Board
	if err := json.Unmarshal(raw, &board); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	return board.Categories, nil
}
