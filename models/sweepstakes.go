package models

import (
	"time"
)

// Sweepstakes represents a raffle users pay an entry fee into. Unlike
// votes, entries are not deduplicated: each one is a separate ticket.
type Sweepstakes struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	EntryCost     int64     `db:"entry_cost" json:"entry_cost"`
	EntryCurrency Currency  `db:"entry_currency" json:"entry_currency"`
	IsOpen        bool      `db:"is_open" json:"is_open"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SweepstakesEntry is a single raffle ticket.
type SweepstakesEntry struct {
	ID            int64     `db:"id" json:"id"`
	SweepstakesID int64     `db:"sweepstakes_id" json:"sweepstakes_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
