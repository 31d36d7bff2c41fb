package repository

import (
	"context"
	"fmt"

	"predictarena/database"
	"predictarena/models"

	"github.com/jackc/pgx/v5"
)

const challengeColumns = `
	id, prediction_id, challenger_id, opponent_id, challenger_stake,
	opponent_stake, challenger_choice, opponent_choice, status, winner_id,
	created_at, accepted_at, resolved_at`

// ChallengeRepository manages head-to-head challenge rows. Accept and
// resolve are both conditional updates so each transition happens at
// most once.
type ChallengeRepository struct {
	q Queryable
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{q: db.Pool}
}

// newChallengeRepositoryWithTx creates a new challenge repository with a transaction
func newChallengeRepositoryWithTx(tx Queryable) *ChallengeRepository {
	return &ChallengeRepository{q: tx}
}

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var c models.Challenge
	err := row.Scan(
		&c.ID,
		&c.PredictionID,
		&c.ChallengerID,
		&c.OpponentID,
		&c.ChallengerStake,
		&c.OpponentStake,
		&c.ChallengerChoice,
		&c.OpponentChoice,
		&c.Status,
		&c.WinnerID,
		&c.CreatedAt,
		&c.AcceptedAt,
		&c.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new pending challenge.
func (r *ChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	query := `
		INSERT INTO challenges (prediction_id, challenger_id, opponent_id, challenger_stake, challenger_choice)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at
	`

	err := r.q.QueryRow(ctx, query,
		c.PredictionID,
		c.ChallengerID,
		c.OpponentID,
		c.ChallengerStake,
		c.ChallengerChoice,
	).Scan(&c.ID, &c.Status, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

// GetByID retrieves a challenge by id, returning nil when absent.
func (r *ChallengeRepository) GetByID(ctx context.Context, challengeID int64) (*models.Challenge, error) {
	query := `SELECT` + challengeColumns + ` FROM challenges WHERE id = $1`

	c, err := scanChallenge(r.q.QueryRow(ctx, query, challengeID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge %d: %w", challengeID, err)
	}

	return c, nil
}

// Accept activates a pending challenge with the opponent's stake and
// choice. Returns false when the challenge was not pending, so a second
// accept cannot double-escrow.
func (r *ChallengeRepository) Accept(ctx context.Context, challengeID int64, opponentStake int64, opponentChoice bool) (bool, error) {
	query := `
		UPDATE challenges
		SET status = 'active', opponent_stake = $1, opponent_choice = $2, accepted_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, opponentStake, opponentChoice, challengeID)
	if err != nil {
		return false, fmt.Errorf("failed to accept challenge %d: %w", challengeID, err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkResolved records the winner (nil on draw) for an unresolved
// challenge. Returns false when the challenge was already resolved.
func (r *ChallengeRepository) MarkResolved(ctx context.Context, challengeID int64, winnerID *int64) (bool, error) {
	query := `
		UPDATE challenges
		SET status = 'resolved', winner_id = $1, resolved_at = NOW()
		WHERE id = $2 AND status IN ('pending', 'active')
	`

	result, err := r.q.Exec(ctx, query, winnerID, challengeID)
	if err != nil {
		return false, fmt.Errorf("failed to mark challenge %d resolved: %w", challengeID, err)
	}

	return result.RowsAffected() > 0, nil
}

// GetUnresolvedByPrediction returns all pending and active challenges
// on a prediction. Settlement consumes both: active ones are decided,
// pending ones have the challenger's escrowed stake refunded.
func (r *ChallengeRepository) GetUnresolvedByPrediction(ctx context.Context, predictionID int64) ([]*models.Challenge, error) {
	query := `SELECT` + challengeColumns + `
		FROM challenges
		WHERE prediction_id = $1 AND status IN ('pending', 'active')
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, predictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unresolved challenges for prediction %d: %w", predictionID, err)
	}
	defer rows.Close()

	return collectChallenges(rows)
}

// GetPendingByOpponent returns pending challenges addressed to a user.
func (r *ChallengeRepository) GetPendingByOpponent(ctx context.Context, opponentID int64) ([]*models.Challenge, error) {
	query := `SELECT` + challengeColumns + `
		FROM challenges
		WHERE opponent_id = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, opponentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending challenges for user %d: %w", opponentID, err)
	}
	defer rows.Close()

	return collectChallenges(rows)
}

// ListByUser returns all challenges a user participates in, newest first.
func (r *ChallengeRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error) {
	query := `SELECT` + challengeColumns + `
		FROM challenges
		WHERE challenger_id = $1 OR opponent_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectChallenges(rows)
}

// CountMonthlyWins counts a user's resolved challenge wins in the
// current calendar month.
func (r *ChallengeRepository) CountMonthlyWins(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM challenges
		WHERE winner_id = $1
		  AND status = 'resolved'
		  AND DATE_TRUNC('month', resolved_at) = DATE_TRUNC('month', NOW())
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count monthly challenge wins for user %d: %w", userID, err)
	}
	return count, nil
}

func collectChallenges(rows pgx.Rows) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	return challenges, nil
}
