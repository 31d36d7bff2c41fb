package models

import (
	"time"
)

// PredictionStatus represents the state of a prediction
type PredictionStatus string

const (
	PredictionStatusOpen     PredictionStatus = "open"
	PredictionStatusClosed   PredictionStatus = "closed"
	PredictionStatusResolved PredictionStatus = "resolved"
)

// PredictionType distinguishes short daily questions from long-running ones
type PredictionType string

const (
	PredictionTypeDaily    PredictionType = "daily"
	PredictionTypeLongTerm PredictionType = "long_term"
)

// DefaultOddsMultiplier applies to any option without an explicit odds entry.
const DefaultOddsMultiplier = 2.0

// Prediction represents a question users stake PT on. Options are
// immutable after creation; status moves open -> closed (time sweep)
// -> resolved (admin, exactly once).
type Prediction struct {
	ID             int64              `db:"id" json:"id"`
	Question       string             `db:"question" json:"question"`
	Category       string             `db:"category" json:"category"`
	Options        []string           `db:"options" json:"options"`
	RequiredPT     int64              `db:"required_pt" json:"required_pt"`
	Status         PredictionStatus   `db:"status" json:"status"`
	CorrectOption  *string            `db:"correct_option" json:"correct_option,omitempty"`
	Odds           map[string]float64 `db:"odds" json:"odds,omitempty"`
	ClosesAt       time.Time          `db:"closes_at" json:"closes_at"`
	PredictionType PredictionType     `db:"prediction_type" json:"prediction_type"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	ClosedAt       *time.Time         `db:"closed_at" json:"closed_at,omitempty"`
	ResolvedAt     *time.Time         `db:"resolved_at" json:"resolved_at,omitempty"`
}

// HasOption checks whether the given option is one of the prediction's options.
func (p *Prediction) HasOption(option string) bool {
	for _, o := range p.Options {
		if o == option {
			return true
		}
	}
	return false
}

// OddsMultiplier returns the payout multiplier for an option, falling
// back to the default when no odds were configured for it.
func (p *Prediction) OddsMultiplier(option string) float64 {
	if p.Odds != nil {
		if m, ok := p.Odds[option]; ok {
			return m
		}
	}
	return DefaultOddsMultiplier
}

// IsVotable checks if the prediction still accepts votes at the given time.
func (p *Prediction) IsVotable(now time.Time) bool {
	return p.Status == PredictionStatusOpen && now.Before(p.ClosesAt)
}

// BooleanOutcome derives the yes/no outcome used for challenge
// resolution from the resolved option.
func (p *Prediction) BooleanOutcome() bool {
	if p.CorrectOption == nil {
		return false
	}
	return *p.CorrectOption == "true" || *p.CorrectOption == "Yes"
}

// ResolutionResult summarizes a settlement run for a prediction.
type ResolutionResult struct {
	Prediction         *Prediction `json:"prediction"`
	WinnersCount       int         `json:"winners_count"`
	LosersCount        int         `json:"losers_count"`
	TotalPTDistributed int64       `json:"total_pt_distributed"`
	ChallengesResolved int         `json:"challenges_resolved"`
	// FailedUserIDs lists users whose payout or stat update failed;
	// settlement continues past individual failures so an admin can
	// retry just these.
	FailedUserIDs []int64 `json:"failed_user_ids,omitempty"`
}
