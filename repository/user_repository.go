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

const userColumns = `
	id, email, username, challenge_code, et_balance, pt_balance, streak,
	total_wins, total_losses, head2head_wins, head2head_losses,
	accuracy_percentage, is_premium, last_monthly_reset, monthly_reset_count,
	last_login_bonus, consecutive_login_days, ads_watched_today,
	last_ad_watch_date, created_at, updated_at`

// UserRepository provides access to user rows, including the guarded
// balance mutations every settlement operation is built on.
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.ChallengeCode,
		&user.ETBalance,
		&user.PTBalance,
		&user.Streak,
		&user.TotalWins,
		&user.TotalLosses,
		&user.Head2HeadWins,
		&user.Head2HeadLosses,
		&user.AccuracyPercentage,
		&user.IsPremium,
		&user.LastMonthlyReset,
		&user.MonthlyResetCount,
		&user.LastLoginBonus,
		&user.ConsecutiveLoginDays,
		&user.AdsWatchedToday,
		&user.LastAdWatchDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func balanceColumn(currency models.Currency) string {
	if currency == models.CurrencyET {
		return "et_balance"
	}
	return "pt_balance"
}

// GetByID retrieves a user by id, returning nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// GetForUpdate retrieves a user by id with a row lock, so the
// read-modify-write paths (daily bonus, ad quota) cannot race.
func (r *UserRepository) GetForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}

	return user, nil
}

// GetByChallengeCode retrieves a user by their public challenge code,
// returning nil when no user carries it.
func (r *UserRepository) GetByChallengeCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE challenge_code = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by challenge code: %w", err)
	}

	return user, nil
}

// Create creates a new user with the given starting balances.
func (r *UserRepository) Create(ctx context.Context, email, username string, startingET, startingPT int64) (*models.User, error) {
	query := `
		INSERT INTO users (email, username, et_balance, pt_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, email, username, startingET, startingPT))
	if isUniqueViolation(err, "") {
		return nil, apperrors.AlreadyExists("email or username already taken")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	return user, nil
}

// AddBalance adds to one of a user's balances atomically.
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error {
	if amount <= 0 {
		return apperrors.InvalidArgument("amount must be positive")
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s = %s + $1, updated_at = NOW()
		WHERE id = $2
	`, balanceColumn(currency), balanceColumn(currency))

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add %s balance for user %d: %w", currency, userID, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}

	return nil
}

// DeductBalance deducts from one of a user's balances atomically. The
// balance check and the decrement are a single conditional UPDATE, so
// two concurrent debits can never both pass on a stale read.
func (r *UserRepository) DeductBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error {
	if amount <= 0 {
		return apperrors.InvalidArgument("amount must be positive")
	}

	col := balanceColumn(currency)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = %s - $1, updated_at = NOW()
		WHERE id = $2 AND %s >= $1
	`, col, col, col)

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct %s balance for user %d: %w", currency, userID, err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing user from an insufficient balance
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return apperrors.NotFound("user %d not found", userID)
		}
		return apperrors.InsufficientFunds("insufficient %s balance: have %d, need %d", currency, user.Balance(currency), amount)
	}

	return nil
}

// RecordWin increments the win counters for a settlement winner. Streak,
// totals and accuracy move together in one statement.
func (r *UserRepository) RecordWin(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET streak = streak + 1,
		    total_wins = total_wins + 1,
		    accuracy_percentage = (total_wins + 1) * 100.0 / (total_wins + total_losses + 1),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to record win for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}

	return nil
}

// RecordLoss resets the streak and increments the loss counters for a
// settlement loser.
func (r *UserRepository) RecordLoss(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET streak = 0,
		    total_losses = total_losses + 1,
		    accuracy_percentage = total_wins * 100.0 / (total_wins + total_losses + 1),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to record loss for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}

	return nil
}

// IncrementHead2HeadWins bumps the challenge win counter.
func (r *UserRepository) IncrementHead2HeadWins(ctx context.Context, userID int64) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users SET head2head_wins = head2head_wins + 1, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment h2h wins for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// IncrementHead2HeadLosses bumps the challenge loss counter.
func (r *UserRepository) IncrementHead2HeadLosses(ctx context.Context, userID int64) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users SET head2head_losses = head2head_losses + 1, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment h2h losses for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// SetChallengeCode assigns the public challenge code.
func (r *UserRepository) SetChallengeCode(ctx context.Context, userID int64, code string) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users SET challenge_code = $1, updated_at = NOW() WHERE id = $2
	`, code, userID)
	if isUniqueViolation(err, "") {
		return apperrors.AlreadyExists("challenge code %s already taken", code)
	}
	if err != nil {
		return fmt.Errorf("failed to set challenge code for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// SetPremium flips the premium flag.
func (r *UserRepository) SetPremium(ctx context.Context, userID int64, premium bool) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users SET is_premium = $1, updated_at = NOW() WHERE id = $2
	`, premium, userID)
	if err != nil {
		return fmt.Errorf("failed to set premium for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// UpdateDailyBonus records a daily bonus claim.
func (r *UserRepository) UpdateDailyBonus(ctx context.Context, userID int64, claimedAt time.Time, consecutiveDays int) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users
		SET last_login_bonus = $1, consecutive_login_days = $2, updated_at = NOW()
		WHERE id = $3
	`, claimedAt, consecutiveDays, userID)
	if err != nil {
		return fmt.Errorf("failed to update daily bonus for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// UpdateAdWatch records an ad watch against the daily quota.
func (r *UserRepository) UpdateAdWatch(ctx context.Context, userID int64, adsWatchedToday int, watchDate time.Time) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users
		SET ads_watched_today = $1, last_ad_watch_date = $2, updated_at = NOW()
		WHERE id = $3
	`, adsWatchedToday, watchDate, userID)
	if err != nil {
		return fmt.Errorf("failed to update ad watch for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// GetMonthlyResetCandidates returns users whose last reset predates the
// current month (or who were never reset).
func (r *UserRepository) GetMonthlyResetCandidates(ctx context.Context) ([]*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE last_monthly_reset IS NULL
		   OR DATE_TRUNC('month', last_monthly_reset) < DATE_TRUNC('month', NOW())
		ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly reset candidates: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// ApplyMonthlyReset sets the PT balance to the reset amount and zeroes
// the per-season counters.
func (r *UserRepository) ApplyMonthlyReset(ctx context.Context, userID int64, resetPT int64) error {
	result, err := r.q.Exec(ctx, `
		UPDATE users
		SET pt_balance = $1,
		    last_monthly_reset = NOW(),
		    monthly_reset_count = monthly_reset_count + 1,
		    total_wins = 0,
		    total_losses = 0,
		    accuracy_percentage = 0,
		    streak = 0,
		    updated_at = NOW()
		WHERE id = $2
	`, resetPT, userID)
	if err != nil {
		return fmt.Errorf("failed to apply monthly reset for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// GetLeaderboard returns the top users by PT balance.
func (r *UserRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT id, username, pt_balance, streak, total_wins, accuracy_percentage
		FROM users
		ORDER BY pt_balance DESC, id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.PTBalance,
			&entry.Streak,
			&entry.TotalWins,
			&entry.AccuracyPercentage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
