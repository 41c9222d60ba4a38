package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/trainpi/internal/server/repositories/exceptions"
	"github.com/dmitrijs2005/trainpi/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. InTx
// serializes callers instead of providing rollback.
type MemoryRepositoryManager struct {
	mu    sync.Mutex
	repos Repositories
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		repos: Repositories{
			Users:      users.NewMemoryRepository(),
			Exceptions: exceptions.NewMemoryRepository(),
		},
	}
}

func (m *MemoryRepositoryManager) Repositories() Repositories {
	return m.repos
}

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.repos)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}
