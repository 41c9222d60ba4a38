// Package repomanager bundles the server repositories behind one seam so
// services can run several repository calls inside a single transaction.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/trainpi/internal/server/repositories/exceptions"
	"github.com/dmitrijs2005/trainpi/internal/server/repositories/users"
)

// Repositories is the set of repositories bound to one connection or
// transaction.
type Repositories struct {
	Users      users.Repository
	Exceptions exceptions.Repository
}

type RepositoryManager interface {
	// Repositories returns repositories bound to the pool.
	Repositories() Repositories
	// InTx runs fn with repositories bound to a transaction. The transaction
	// commits when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	RunMigrations(ctx context.Context) error
}
