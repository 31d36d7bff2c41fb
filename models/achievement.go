package models

import (
	"time"
)

// RequirementType names the stat an achievement threshold is compared against
type RequirementType string

const (
	RequirementPredictions        RequirementType = "predictions"
	RequirementH2HWins            RequirementType = "h2h_wins"
	RequirementAccuracy           RequirementType = "accuracy"
	RequirementMonthlyPredictions RequirementType = "monthly_predictions"
	RequirementMonthlyH2HWins     RequirementType = "monthly_h2h_wins"
)

// Achievement is a threshold-based bonus definition. Permanent
// achievements are earned at most once ever; monthly ones at most once
// per (user, achievement, monthYear).
type Achievement struct {
	ID               int64           `db:"id" json:"id"`
	Code             string          `db:"code" json:"code"`
	Name             string          `db:"name" json:"name"`
	Description      string          `db:"description" json:"description"`
	TokenReward      int64           `db:"token_reward" json:"token_reward"`
	IsMonthly        bool            `db:"is_monthly" json:"is_monthly"`
	RequirementType  RequirementType `db:"requirement_type" json:"requirement_type"`
	RequirementValue float64         `db:"requirement_value" json:"requirement_value"`
}

// UserAchievement records a grant. MonthYear is "YYYY-MM" for monthly
// achievements and nil for permanent ones.
type UserAchievement struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	AchievementID int64     `db:"achievement_id" json:"achievement_id"`
	MonthYear     *string   `db:"month_year" json:"month_year,omitempty"`
	EarnedAt      time.Time `db:"earned_at" json:"earned_at"`
}

// AchievementStats is the read-only snapshot the evaluator compares
// against requirement thresholds.
type AchievementStats struct {
	Predictions        int
	H2HWins            int
	Accuracy           float64
	MonthlyPredictions int
	MonthlyH2HWins     int
}

// Value returns the stat matching a requirement type.
func (s AchievementStats) Value(rt RequirementType) float64 {
	switch rt {
	case RequirementPredictions:
		return float64(s.Predictions)
	case RequirementH2HWins:
		return float64(s.H2HWins)
	case RequirementAccuracy:
		return s.Accuracy
	case RequirementMonthlyPredictions:
		return float64(s.MonthlyPredictions)
	case RequirementMonthlyH2HWins:
		return float64(s.MonthlyH2HWins)
	}
	return 0
}
