package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"predictarena/database"
	"predictarena/models"

	"github.com/jackc/pgx/v5"
)

const predictionColumns = `
	id, question, category, options, required_pt, status, correct_option,
	odds, closes_at, prediction_type, created_at, closed_at, resolved_at`

// PredictionRepository manages prediction rows, including the guarded
// status transitions that make settlement run exactly once.
type PredictionRepository struct {
	q Queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{q: db.Pool}
}

// newPredictionRepositoryWithTx creates a new prediction repository with a transaction
func newPredictionRepositoryWithTx(tx Queryable) *PredictionRepository {
	return &PredictionRepository{q: tx}
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var p models.Prediction
	var optionsJSON, oddsJSON []byte

	err := row.Scan(
		&p.ID,
		&p.Question,
		&p.Category,
		&optionsJSON,
		&p.RequiredPT,
		&p.Status,
		&p.CorrectOption,
		&oddsJSON,
		&p.ClosesAt,
		&p.PredictionType,
		&p.CreatedAt,
		&p.ClosedAt,
		&p.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &p.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if oddsJSON != nil {
		if err := json.Unmarshal(oddsJSON, &p.Odds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal odds: %w", err)
		}
	}

	return &p, nil
}

// Create inserts a new prediction in the open state.
func (r *PredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	optionsJSON, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	var oddsJSON []byte
	if p.Odds != nil {
		oddsJSON, err = json.Marshal(p.Odds)
		if err != nil {
			return fmt.Errorf("failed to marshal odds: %w", err)
		}
	}

	query := `
		INSERT INTO predictions (question, category, options, required_pt, odds, closes_at, prediction_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at
	`

	err = r.q.QueryRow(ctx, query,
		p.Question,
		p.Category,
		optionsJSON,
		p.RequiredPT,
		oddsJSON,
		p.ClosesAt,
		p.PredictionType,
	).Scan(&p.ID, &p.Status, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by id, returning nil when absent.
func (r *PredictionRepository) GetByID(ctx context.Context, predictionID int64) (*models.Prediction, error) {
	query := `SELECT` + predictionColumns + ` FROM predictions WHERE id = $1`

	p, err := scanPrediction(r.q.QueryRow(ctx, query, predictionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction %d: %w", predictionID, err)
	}

	return p, nil
}

// List returns predictions filtered by status, newest first. An empty
// status returns all predictions.
func (r *PredictionRepository) List(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM predictions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetPendingResolution returns closed predictions awaiting an admin verdict.
func (r *PredictionRepository) GetPendingResolution(ctx context.Context) ([]*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM predictions
		WHERE status = 'closed'
		ORDER BY closes_at, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending resolutions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return predictions, nil
}

// MarkResolved transitions a prediction to resolved and records the
// correct option. The status condition makes the transition win exactly
// once: a second resolver's UPDATE matches zero rows.
func (r *PredictionRepository) MarkResolved(ctx context.Context, predictionID int64, correctOption string) (bool, error) {
	query := `
		UPDATE predictions
		SET status = 'resolved', correct_option = $1, resolved_at = NOW()
		WHERE id = $2 AND status IN ('open', 'closed')
	`

	result, err := r.q.Exec(ctx, query, correctOption, predictionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark prediction %d resolved: %w", predictionID, err)
	}

	return result.RowsAffected() > 0, nil
}

// CloseExpired transitions open predictions past their close time to
// closed, returning the ids it touched.
func (r *PredictionRepository) CloseExpired(ctx context.Context) ([]int64, error) {
	query := `
		UPDATE predictions
		SET status = 'closed', closed_at = NOW()
		WHERE status = 'open' AND closes_at <= NOW()
		RETURNING id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to close expired predictions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan prediction id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate closed predictions: %w", err)
	}

	return ids, nil
}
