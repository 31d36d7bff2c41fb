package repository

import (
	"context"
	"fmt"

	"predictarena/database"
	"predictarena/models"
)

// AchievementRepository reads achievement definitions and records grants.
type AchievementRepository struct {
	q Queryable
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.DB) *AchievementRepository {
	return &AchievementRepository{q: db.Pool}
}

// newAchievementRepositoryWithTx creates a new achievement repository with a transaction
func newAchievementRepositoryWithTx(tx Queryable) *AchievementRepository {
	return &AchievementRepository{q: tx}
}

// GetAll returns every achievement definition.
func (r *AchievementRepository) GetAll(ctx context.Context) ([]*models.Achievement, error) {
	query := `
		SELECT id, code, name, description, token_reward, is_monthly, requirement_type, requirement_value
		FROM achievements
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(
			&a.ID,
			&a.Code,
			&a.Name,
			&a.Description,
			&a.TokenReward,
			&a.IsMonthly,
			&a.RequirementType,
			&a.RequirementValue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	return achievements, nil
}

// GetEarnedIDs returns the achievement ids a user has already earned.
// For monthly achievements only grants in the given monthYear count.
func (r *AchievementRepository) GetEarnedIDs(ctx context.Context, userID int64, monthYear string) (map[int64]bool, error) {
	query := `
		SELECT achievement_id
		FROM user_achievements
		WHERE user_id = $1 AND (month_year IS NULL OR month_year = $2)
	`

	rows, err := r.q.Query(ctx, query, userID, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned achievements for user %d: %w", userID, err)
	}
	defer rows.Close()

	earned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement id: %w", err)
		}
		earned[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate earned achievements: %w", err)
	}

	return earned, nil
}

// Grant records an achievement for a user. A duplicate grant from a
// concurrent evaluation is swallowed: the unique indexes make the first
// writer win and Grant reports false instead of an error.
func (r *AchievementRepository) Grant(ctx context.Context, ua *models.UserAchievement) (bool, error) {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, month_year)
		VALUES ($1, $2, $3)
		RETURNING id, earned_at
	`

	err := r.q.QueryRow(ctx, query, ua.UserID, ua.AchievementID, ua.MonthYear).Scan(&ua.ID, &ua.EarnedAt)
	if isUniqueViolation(err, "") {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement %d to user %d: %w", ua.AchievementID, ua.UserID, err)
	}

	return true, nil
}

// GetByUser returns all of a user's earned achievements with definitions.
func (r *AchievementRepository) GetByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, month_year, earned_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY earned_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements for user %d: %w", userID, err)
	}
	defer rows.Close()

	var earned []*models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.MonthYear, &ua.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user achievement: %w", err)
		}
		earned = append(earned, &ua)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user achievements: %w", err)
	}

	return earned, nil
}
