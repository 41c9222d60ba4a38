package exceptions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

// MemoryRepository keeps records in process memory. Used when the server
// runs without a database and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]models.Exception
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.Exception)}
}

func (r *MemoryRepository) Create(_ context.Context, e *models.Exception) (*models.Exception, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = clone(*e)
	return e, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string, filter models.StatusFilter) ([]models.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Exception, 0, len(r.items))
	for id := int64(1); id <= r.nextID; id++ {
		e, ok := r.items[id]
		if !ok || e.UserID != userID || !filter.Match(e) {
			continue
		}
		result = append(result, clone(e))
	}
	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, userID string, id int64) (*models.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := clone(e)
	return &c, nil
}

func (r *MemoryRepository) Update(_ context.Context, e *models.Exception) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[e.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Status = e.Status
	stored.ClearedAt = e.ClearedAt
	stored.Duration = e.Duration
	r.items[e.ID] = clone(stored)
	return nil
}

// clone copies the pointer fields so callers never share state with the map.
func clone(e models.Exception) models.Exception {
	if e.ClearedAt != nil {
		t := *e.ClearedAt
		e.ClearedAt = &t
	}
	if e.Duration != nil {
		d := *e.Duration
		e.Duration = &d
	}
	return e
}
