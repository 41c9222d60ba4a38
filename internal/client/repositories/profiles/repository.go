// Package profiles stores per-user JSON documents (profile, stats, lesson
// progress) in the local database, keyed by user id.
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
)

type Repository interface {
	// Get returns the stored document or common.ErrorNotFound.
	Get(ctx context.Context, userID string) (json.RawMessage, error)
	// Put replaces the document. Invalid JSON yields common.ErrorValidation.
	Put(ctx context.Context, userID string, data json.RawMessage) error
	Delete(ctx context.Context, userID string) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (json.RawMessage, error) {
	query, args, err := sq.Select("data").From("profiles").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var data []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}
	return json.RawMessage(data), nil
}

func (r *SQLiteRepository) Put(ctx context.Context, userID string, data json.RawMessage) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", common.ErrorValidation)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: profile is not valid JSON", common.ErrorValidation)
	}

	query, args, err := sq.Insert("profiles").
		Columns("user_id", "data", "updated_at").
		Values(userID, []byte(data), time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := sq.Delete("profiles").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", userID, err)
	}
	return nil
}
