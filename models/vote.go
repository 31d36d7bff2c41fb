package models

import (
	"time"
)

// Vote is a single irrevocable stake on a prediction option. At most one
// exists per (user, prediction); enforced by a unique index.
type Vote struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	PredictionID   int64     `db:"prediction_id" json:"prediction_id"`
	OptionSelected string    `db:"option_selected" json:"option_selected"`
	PTSpent        int64     `db:"pt_spent" json:"pt_spent"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// VoteResult is returned after a vote is placed, carrying the balance
// left after the stake was debited.
type VoteResult struct {
	Vote         *Vote `json:"vote"`
	NewPTBalance int64 `json:"new_pt_balance"`
}
