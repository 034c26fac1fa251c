package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BoardLoader fetches the question board from a backing store (file, Postgres).
type BoardLoader interface {
	LoadBoard(ctx context.Context) ([]domain.Category, error)
}

// BoardRepository caches the board with a TTL so the editor endpoints and
// runtime reloads do not hammer the backing store. Concurrent cache misses are
// coalesced into a single load.
type BoardRepository struct {
	loader BoardLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu        sync.RWMutex
	cached    []domain.Category
	hasCache  bool
	expiresAt time.Time
}

func NewBoardRepository(loader BoardLoader, ttl time.Duration) *BoardRepository {
	return &BoardRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
	}
}

func (r *BoardRepository) GetBoard(ctx context.Context) ([]domain.Category, error) {
	now := r.clock()

	r.mu.RLock()
	if r.hasCache && r.expiresAt.After(now) {
		cached := r.cached
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("board", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.hasCache && r.expiresAt.After(now) {
			cached := r.cached
			r.mu.RUnlock()
			return cached, nil
		}
		r.mu.RUnlock()

		categories, err := r.loader.LoadBoard(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = categories
		r.hasCache = true
		r.expiresAt = now.Add(r.ttl)
		r.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

// Invalidate drops the cached board so the next GetBoard hits the backing
// store (called after the editor saved a new question set).
func (r *BoardRepository) Invalidate() {
	r.mu.Lock()
	r.hasCache = false
	r.cached = nil
	r.mu.Unlock()
}

// StaticBoardLoader is a loader backed by an in-memory category set (tests).
type StaticBoardLoader struct {
	categories []domain.Category
}

func NewStaticBoardLoader(categories []domain.Category) *StaticBoardLoader {
	return &StaticBoardLoader{categories: categories}
}

func (l *StaticBoardLoader) LoadBoard(_ context.Context) ([]domain.Category, error) {
	if l.categories == nil {
		return nil, domain.ErrBoardNotFound
	}
	return l.categories, nil
}
