// Package exceptions is the local SQLite cache of the signed-in user's
// exception records.
package exceptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

type Repository interface {
	// ReplaceAll makes items the entire cache content. Run it inside a
	// transaction to keep readers from seeing a partial cache.
	ReplaceAll(ctx context.Context, items []models.Exception) error
	// List returns every cached record ordered by id.
	List(ctx context.Context) ([]models.Exception, error)
	// GetByID returns one record or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Exception, error)
	Upsert(ctx context.Context, e *models.Exception) error
	// NextLocalID returns a negative id below every cached one. Server ids
	// are positive, so records created offline never collide with them.
	NextLocalID(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

var columns = []string{"id", "type", "status", "remarks", "created_at", "cleared_at", "duration"}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Exception) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}
	for i := range items {
		if err := r.Upsert(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Exception, error) {
	query, args, err := sq.Select(columns...).From("exceptions").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", err)
	}
	defer rows.Close()

	result := make([]models.Exception, 0)
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exceptions: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Exception, error) {
	query, args, err := sq.Select(columns...).From("exceptions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return e, err
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.Exception) error {
	var clearedAt, duration any
	if e.ClearedAt != nil {
		clearedAt = formatTime(*e.ClearedAt)
	}
	if e.Duration != nil {
		duration = *e.Duration
	}

	query, args, err := sq.Insert("exceptions").
		Columns(columns...).
		Values(e.ID, e.Type, string(e.Status), e.Remarks, formatTime(e.CreatedAt), clearedAt, duration).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			status = excluded.status,
			remarks = excluded.remarks,
			created_at = excluded.created_at,
			cleared_at = excluded.cleared_at,
			duration = excluded.duration`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save exception %d: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) NextLocalID(ctx context.Context) (int64, error) {
	var minID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MIN(id) FROM exceptions`).Scan(&minID); err != nil {
		return 0, fmt.Errorf("failed to read min id: %w", err)
	}
	return min(minID.Int64, 0) - 1, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exceptions`); err != nil {
		return fmt.Errorf("failed to clear exceptions: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Exception, error) {
	var (
		e         models.Exception
		status    string
		createdAt string
		clearedAt sql.NullString
		duration  sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.Type, &status, &e.Remarks, &createdAt, &clearedAt, &duration); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan exception: %w", err)
	}

	e.Status = models.Status(status)
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = t

	if clearedAt.Valid {
		t, err := parseTime(clearedAt.String)
		if err != nil {
			return nil, err
		}
		e.ClearedAt = &t
	}
	if duration.Valid {
		d := duration.Int64
		e.Duration = &d
	}
	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t, nil
}
