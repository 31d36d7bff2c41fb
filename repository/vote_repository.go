package repository

import (
	"context"
	"fmt"
	"time"

	"predictarena/apperrors"
	"predictarena/database"
	"predictarena/models"

	"github.com/jackc/pgx/v5"
)

const voteColumns = `id, user_id, prediction_id, option_selected, pt_spent, created_at`

// VoteRepository manages vote rows. The one-vote-per-user-per-prediction
// rule is backed by a unique constraint, so the database is the final
// arbiter under concurrent submissions.
type VoteRepository struct {
	q Queryable
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *database.DB) *VoteRepository {
	return &VoteRepository{q: db.Pool}
}

// newVoteRepositoryWithTx creates a new vote repository with a transaction
func newVoteRepositoryWithTx(tx Queryable) *VoteRepository {
	return &VoteRepository{q: tx}
}

func scanVote(row pgx.Row) (*models.Vote, error) {
	var v models.Vote
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.PredictionID,
		&v.OptionSelected,
		&v.PTSpent,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a vote, mapping the duplicate-vote constraint to a
// typed error.
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (user_id, prediction_id, option_selected, pt_spent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		vote.UserID,
		vote.PredictionID,
		vote.OptionSelected,
		vote.PTSpent,
	).Scan(&vote.ID, &vote.CreatedAt)
	if isUniqueViolation(err, "votes_user_prediction_unique") {
		return apperrors.AlreadyExists("user %d already voted on prediction %d", vote.UserID, vote.PredictionID)
	}
	if err != nil {
		return fmt.Errorf("failed to create vote: %w", err)
	}

	return nil
}

// GetByUserAndPrediction returns a user's vote on a prediction, or nil.
func (r *VoteRepository) GetByUserAndPrediction(ctx context.Context, userID, predictionID int64) (*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE user_id = $1 AND prediction_id = $2`

	vote, err := scanVote(r.q.QueryRow(ctx, query, userID, predictionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

// GetWinners returns all votes on the prediction that picked the given option.
func (r *VoteRepository) GetWinners(ctx context.Context, predictionID int64, option string) ([]*models.Vote, error) {
	query := `SELECT ` + voteColumns + `
		FROM votes
		WHERE prediction_id = $1 AND option_selected = $2
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, predictionID, option)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning votes: %w", err)
	}
	defer rows.Close()

	return collectVotes(rows)
}

// GetLosingVoterIDs returns the ids of users who voted for any other option.
func (r *VoteRepository) GetLosingVoterIDs(ctx context.Context, predictionID int64, correctOption string) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM votes
		WHERE prediction_id = $1 AND option_selected != $2
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query, predictionID, correctOption)
	if err != nil {
		return nil, fmt.Errorf("failed to get losing voter ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voter id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voter ids: %w", err)
	}

	return ids, nil
}

// CountByUserSince counts a user's votes created at or after the given time.
func (r *VoteRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes for user %d: %w", userID, err)
	}
	return count, nil
}

// GetByUser returns a user's votes, newest first.
func (r *VoteRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Vote, error) {
	query := `SELECT ` + voteColumns + `
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectVotes(rows)
}

func collectVotes(rows pgx.Rows) ([]*models.Vote, error) {
	var votes []*models.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}
