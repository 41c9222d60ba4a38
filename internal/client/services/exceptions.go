// Package services contains the client-side application services used by
// the CLI.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"code.cloudfoundry.org/clock"
	"github.com/dmitrijs2005/trainpi/internal/client/remote"
	"github.com/dmitrijs2005/trainpi/internal/client/repositories/exceptions"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

// Outcome tells whether a mutation reached the server or only the local
// cache.
type Outcome int

const (
	Synced Outcome = iota + 1
	LocalOnly
)

func (o Outcome) String() string {
	switch o {
	case Synced:
		return "synced"
	case LocalOnly:
		return "local-only"
	default:
		return "unknown"
	}
}

// ExceptionStore keeps the exception collection in the local cache and
// mirrors changes to the server on a best-effort basis. The local cache is
// authoritative for display; records changed while the server was
// unreachable are not reconciled later.
type ExceptionStore struct {
	db     *sql.DB
	remote remote.Client
	clock  clock.Clock
	logger logging.Logger
}

func NewExceptionStore(db *sql.DB, rc remote.Client, clk clock.Clock, logger logging.Logger) *ExceptionStore {
	return &ExceptionStore{
		db:     db,
		remote: rc,
		clock:  clk,
		logger: logger.With("component", "exception_store"),
	}
}

func (s *ExceptionStore) cache(db dbx.DBTX) exceptions.Repository {
	return exceptions.NewSQLiteRepository(db)
}

// List fetches the server's records and replaces the cache with them. When
// the server cannot deliver, the cached records are returned unchanged.
func (s *ExceptionStore) List(ctx context.Context) ([]models.Exception, error) {
	items, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "remote list failed, serving cached exceptions", "op", "list", "error", err)
		cached, cerr := s.cache(s.db).List(ctx)
		if cerr != nil {
			return nil, fmt.Errorf("read cache: %w", cerr)
		}
		return cached, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.cache(tx).ReplaceAll(ctx, items)
	})
	if err != nil {
		s.logger.Error(ctx, "cache refresh failed", "op", "list", "error", err)
	}
	return items, nil
}

// ListFiltered is List narrowed by f.
func (s *ExceptionStore) ListFiltered(ctx context.Context, f models.StatusFilter) ([]models.Exception, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(items), nil
}

// Clear asks the server to clear id and then clears the cached record with
// the local clock whatever the server answered. The duration therefore
// always comes from local time. A record that is already cleared is
// returned as stored. Records created offline are never sent to the server.
func (s *ExceptionStore) Clear(ctx context.Context, id int64) (*models.Exception, Outcome, error) {
	outcome := Synced
	var serverCopy *models.Exception
	if models.IsLocalID(id) {
		outcome = LocalOnly
		s.logger.Debug(ctx, "record was created offline, clearing locally", "op", "clear", "id", id)
	} else {
		var rerr error
		serverCopy, rerr = s.remote.Clear(ctx, id)
		if rerr != nil {
			outcome = LocalOnly
			s.logger.Warn(ctx, "remote clear failed, clearing locally; server may be out of sync",
				"op", "clear", "id", id, "error", rerr)
		}
	}

	var result *models.Exception
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cache := s.cache(tx)

		e, err := cache.GetByID(ctx, id)
		if errors.Is(err, common.ErrorNotFound) && serverCopy != nil {
			e = serverCopy
			e.UserID = ""
		} else if err != nil {
			return err
		}

		if !e.IsCleared() {
			if err := e.Clear(s.clock.Now()); err != nil {
				return err
			}
		}
		if err := cache.Upsert(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, outcome, fmt.Errorf("exception %d: %w", id, common.ErrorNotFound)
		}
		return nil, outcome, fmt.Errorf("clear exception %d: %w", id, err)
	}
	return result, outcome, nil
}

// Create registers a new open record on the server. When the server cannot
// be reached the record is created in the cache only, under a negative
// local id that a later server id cannot overwrite.
func (s *ExceptionStore) Create(ctx context.Context, typ, remarks string) (*models.Exception, Outcome, error) {
	probe := models.NewException(1, typ, remarks, s.clock.Now())
	if err := probe.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	created, rerr := s.remote.Create(ctx, typ, remarks)
	if rerr == nil {
		created.UserID = ""
		if err := s.cache(s.db).Upsert(ctx, created); err != nil {
			s.logger.Error(ctx, "cache write failed", "op", "create", "id", created.ID, "error", err)
		}
		return created, Synced, nil
	}
	if errors.Is(rerr, common.ErrorValidation) {
		return nil, 0, rerr
	}

	s.logger.Warn(ctx, "remote create failed, creating locally", "op", "create", "error", rerr)

	var result *models.Exception
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cache := s.cache(tx)
		id, err := cache.NextLocalID(ctx)
		if err != nil {
			return err
		}
		e := models.NewException(id, probe.Type, probe.Remarks, probe.CreatedAt)
		if err := cache.Upsert(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, LocalOnly, fmt.Errorf("create exception: %w", err)
	}
	return result, LocalOnly, nil
}
