package exceptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{"id", "user_id", "type", "status", "remarks", "created_at", "cleared_at", "duration"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Exception) (*models.Exception, error) {
	query, args, err := psql.Insert("exceptions").
		Columns("user_id", "type", "status", "remarks", "created_at").
		Values(e.UserID, e.Type, string(e.Status), e.Remarks, e.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.StatusFilter) ([]models.Exception, error) {
	q := psql.Select(columns...).From("exceptions").Where(sq.Eq{"user_id": userID})
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	query, args, err := q.OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id int64) (*models.Exception, error) {
	query, args, err := psql.Select(columns...).From("exceptions").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Exception) error {
	query, args, err := psql.Update("exceptions").
		Set("status", string(e.Status)).
		Set("cleared_at", e.ClearedAt).
		Set("duration", e.Duration).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n != 1 {
		return common.ErrorNotFound
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
		clearedAt sql.NullTime
		duration  sql.NullInt64
	)
	err := s.Scan(&e.ID, &e.UserID, &e.Type, &status, &e.Remarks, &e.CreatedAt, &clearedAt, &duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	e.Status = models.Status(status)
	e.CreatedAt = e.CreatedAt.UTC()
	if clearedAt.Valid {
		t := clearedAt.Time.UTC()
		e.ClearedAt = &t
	}
	if duration.Valid {
		d := duration.Int64
		e.Duration = &d
	}
	return &e, nil
}
