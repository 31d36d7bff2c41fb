package repository

import (
	"context"
	"fmt"

	"predictarena/database"
	"predictarena/models"

	"github.com/jackc/pgx/v5"
)

const sweepstakesColumns = `id, title, description, entry_cost, entry_currency, is_open, created_at`

// SweepstakesRepository manages sweepstakes and their entries.
type SweepstakesRepository struct {
	q Queryable
}

// NewSweepstakesRepository creates a new sweepstakes repository
func NewSweepstakesRepository(db *database.DB) *SweepstakesRepository {
	return &SweepstakesRepository{q: db.Pool}
}

// newSweepstakesRepositoryWithTx creates a new sweepstakes repository with a transaction
func newSweepstakesRepositoryWithTx(tx Queryable) *SweepstakesRepository {
	return &SweepstakesRepository{q: tx}
}

func scanSweepstakes(row pgx.Row) (*models.Sweepstakes, error) {
	var s models.Sweepstakes
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.EntryCost,
		&s.EntryCurrency,
		&s.IsOpen,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new open sweepstakes.
func (r *SweepstakesRepository) Create(ctx context.Context, s *models.Sweepstakes) error {
	query := `
		INSERT INTO sweepstakes (title, description, entry_cost, entry_currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_open, created_at
	`

	err := r.q.QueryRow(ctx, query,
		s.Title,
		s.Description,
		s.EntryCost,
		s.EntryCurrency,
	).Scan(&s.ID, &s.IsOpen, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sweepstakes: %w", err)
	}

	return nil
}

// GetByID retrieves a sweepstakes by id, returning nil when absent.
func (r *SweepstakesRepository) GetByID(ctx context.Context, sweepstakesID int64) (*models.Sweepstakes, error) {
	query := `SELECT ` + sweepstakesColumns + ` FROM sweepstakes WHERE id = $1`

	s, err := scanSweepstakes(r.q.QueryRow(ctx, query, sweepstakesID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweepstakes %d: %w", sweepstakesID, err)
	}

	return s, nil
}

// ListOpen returns all sweepstakes currently accepting entries.
func (r *SweepstakesRepository) ListOpen(ctx context.Context) ([]*models.Sweepstakes, error) {
	query := `SELECT ` + sweepstakesColumns + `
		FROM sweepstakes
		WHERE is_open
		ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sweepstakes: %w", err)
	}
	defer rows.Close()

	var list []*models.Sweepstakes
	for rows.Next() {
		s, err := scanSweepstakes(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweepstakes: %w", err)
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sweepstakes: %w", err)
	}

	return list, nil
}

// SetOpen opens or closes a sweepstakes for entries.
func (r *SweepstakesRepository) SetOpen(ctx context.Context, sweepstakesID int64, open bool) (bool, error) {
	result, err := r.q.Exec(ctx, `
		UPDATE sweepstakes SET is_open = $1 WHERE id = $2
	`, open, sweepstakesID)
	if err != nil {
		return false, fmt.Errorf("failed to update sweepstakes %d: %w", sweepstakesID, err)
	}
	return result.RowsAffected() > 0, nil
}

// CreateEntry records one raffle ticket.
func (r *SweepstakesRepository) CreateEntry(ctx context.Context, entry *models.SweepstakesEntry) error {
	query := `
		INSERT INTO sweepstakes_entries (sweepstakes_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, entry.SweepstakesID, entry.UserID).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sweepstakes entry: %w", err)
	}

	return nil
}

// GetEntriesByUser returns a user's tickets, newest first.
func (r *SweepstakesRepository) GetEntriesByUser(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error) {
	query := `
		SELECT id, sweepstakes_id, user_id, created_at
		FROM sweepstakes_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweepstakes entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.SweepstakesEntry
	for rows.Next() {
		var e models.SweepstakesEntry
		if err := rows.Scan(&e.ID, &e.SweepstakesID, &e.UserID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sweepstakes entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sweepstakes entries: %w", err)
	}

	return entries, nil
}
