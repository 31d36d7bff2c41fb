package models

import (
	"time"
)

// ChallengeStatus represents the state of a head-to-head challenge
type ChallengeStatus string

const (
	ChallengeStatusPending  ChallengeStatus = "pending"
	ChallengeStatusActive   ChallengeStatus = "active"
	ChallengeStatusResolved ChallengeStatus = "resolved"
)

// Challenge represents an escrowed 1v1 stake between two users on the
// boolean outcome of a prediction. The challenger's stake is debited at
// creation; the opponent's equal stake is debited on accept. Challenges
// are never cancelled or deleted.
type Challenge struct {
	ID               int64           `db:"id" json:"id"`
	PredictionID     int64           `db:"prediction_id" json:"prediction_id"`
	ChallengerID     int64           `db:"challenger_id" json:"challenger_id"`
	OpponentID       int64           `db:"opponent_id" json:"opponent_id"`
	ChallengerStake  int64           `db:"challenger_stake" json:"challenger_stake"`
	OpponentStake    *int64          `db:"opponent_stake" json:"opponent_stake,omitempty"`
	ChallengerChoice bool            `db:"challenger_choice" json:"challenger_choice"`
	OpponentChoice   *bool           `db:"opponent_choice" json:"opponent_choice,omitempty"`
	Status           ChallengeStatus `db:"status" json:"status"`
	WinnerID         *int64          `db:"winner_id" json:"winner_id,omitempty"` // nil on draw
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	AcceptedAt       *time.Time      `db:"accepted_at" json:"accepted_at,omitempty"`
	ResolvedAt       *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
}

// IsParticipant checks if a user is involved in the challenge
func (c *Challenge) IsParticipant(userID int64) bool {
	return c.ChallengerID == userID || c.OpponentID == userID
}

// CanBeAccepted checks if the challenge can be accepted by the given user
func (c *Challenge) CanBeAccepted(userID int64) bool {
	return c.Status == ChallengeStatusPending && c.OpponentID == userID
}

// TotalPot returns both escrowed stakes combined.
func (c *Challenge) TotalPot() int64 {
	pot := c.ChallengerStake
	if c.OpponentStake != nil {
		pot += *c.OpponentStake
	}
	return pot
}

// Outcome decides the winner given the resolved boolean outcome of the
// parent prediction. A nil winner means draw: both matched or neither did.
func (c *Challenge) Outcome(correctAnswer bool) *int64 {
	if c.OpponentChoice == nil {
		return nil
	}
	challengerRight := c.ChallengerChoice == correctAnswer
	opponentRight := *c.OpponentChoice == correctAnswer
	if challengerRight && !opponentRight {
		return &c.ChallengerID
	}
	if opponentRight && !challengerRight {
		return &c.OpponentID
	}
	return nil
}

// ChallengeOutcome summarizes the settlement of a single challenge.
type ChallengeOutcome struct {
	Challenge *Challenge
	WinnerID  *int64
	AmountWon int64 // total pot on a win, 0 on a draw
	Draw      bool
}
