// internal/infra/database/postgres_cycle_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
)

var ErrEntryNotFound = fmt.Errorf("cycle entry not found")

type PostgresCycleRepository struct {
	db *sql.DB
}

func NewPostgresCycleRepository(db *sql.DB) *PostgresCycleRepository {
	return &PostgresCycleRepository{db: db}
}

func (r *PostgresCycleRepository) Create(ctx context.Context, e *cycle.Entry) error {
	query := `INSERT INTO cycle_entries (user_id, start_date, end_date)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, e.UserID, e.StartDate, e.EndDate).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating cycle entry: %w", err)
	}
	return nil
}

func (r *PostgresCycleRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*cycle.Entry, error) {
	query := `SELECT id, user_id, start_date, end_date, created_at
               FROM cycle_entries
               WHERE user_id = $1 ORDER BY start_date DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying cycle entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*cycle.Entry, 0)
	for rows.Next() {
		e := &cycle.Entry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.StartDate, &e.EndDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning cycle entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle entry rows: %w", err)
	}
	return entries, nil
}

func (r *PostgresCycleRepository) DeleteLatest(ctx context.Context, userID int64) error {
	query := `DELETE FROM cycle_entries
               WHERE id = (SELECT id FROM cycle_entries WHERE user_id = $1 ORDER BY start_date DESC LIMIT 1)`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("error deleting latest cycle entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *PostgresCycleRepository) SetEndDate(ctx context.Context, userID int64, endDate time.Time) error {
	query := `UPDATE cycle_entries SET end_date = $1
               WHERE id = (SELECT id FROM cycle_entries WHERE user_id = $2 AND end_date IS NULL ORDER BY start_date DESC LIMIT 1)`
	res, err := r.db.ExecContext(ctx, query, endDate, userID)
	if err != nil {
		return fmt.Errorf("error setting end date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
