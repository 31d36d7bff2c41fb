package models

import (
	"time"
)

// TransactionType represents the cause of a balance change
type TransactionType string

const (
	TransactionTypeInitial        TransactionType = "initial"
	TransactionTypeVote           TransactionType = "vote"
	TransactionTypeWin            TransactionType = "win"
	TransactionTypeH2HStake       TransactionType = "h2h_stake"
	TransactionTypeH2HWin         TransactionType = "h2h_win"
	TransactionTypeH2HDraw        TransactionType = "h2h_draw"
	TransactionTypeSweepstakes    TransactionType = "sweepstakes"
	TransactionTypeAchievement    TransactionType = "achievement"
	TransactionTypePurchase       TransactionType = "purchase"
	TransactionTypeBonus          TransactionType = "bonus"
	TransactionTypeAdWatch        TransactionType = "ad_watch"
	TransactionTypeMonthlyReset   TransactionType = "monthly_reset"
	TransactionTypePremiumUpgrade TransactionType = "premium_upgrade"
)

// Transaction is an immutable ledger row recording a single balance
// change. Every balance mutation pairs with exactly one of these; rows
// are never updated or deleted.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      int64           `db:"amount" json:"amount"` // signed: negative for debits
	Currency    Currency        `db:"currency" json:"currency"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
