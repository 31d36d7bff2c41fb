package models

import (
	"time"
)

// Currency identifies which of the two token balances an amount refers to.
type Currency string

const (
	CurrencyET Currency = "ET"
	CurrencyPT Currency = "PT"
)

// User represents a player with two token balances and derived stats
type User struct {
	ID                   int64      `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	Username             string     `db:"username" json:"username"`
	ChallengeCode        *string    `db:"challenge_code" json:"challenge_code,omitempty"`
	ETBalance            int64      `db:"et_balance" json:"et_balance"`
	PTBalance            int64      `db:"pt_balance" json:"pt_balance"`
	Streak               int        `db:"streak" json:"streak"`
	TotalWins            int        `db:"total_wins" json:"total_wins"`
	TotalLosses          int        `db:"total_losses" json:"total_losses"`
	Head2HeadWins        int        `db:"head2head_wins" json:"head2head_wins"`
	Head2HeadLosses      int        `db:"head2head_losses" json:"head2head_losses"`
	AccuracyPercentage   float64    `db:"accuracy_percentage" json:"accuracy_percentage"`
	IsPremium            bool       `db:"is_premium" json:"is_premium"`
	LastMonthlyReset     *time.Time `db:"last_monthly_reset" json:"last_monthly_reset,omitempty"`
	MonthlyResetCount    int        `db:"monthly_reset_count" json:"monthly_reset_count"`
	LastLoginBonus       *time.Time `db:"last_login_bonus" json:"last_login_bonus,omitempty"`
	ConsecutiveLoginDays int        `db:"consecutive_login_days" json:"consecutive_login_days"`
	AdsWatchedToday      int        `db:"ads_watched_today" json:"ads_watched_today"`
	LastAdWatchDate      *time.Time `db:"last_ad_watch_date" json:"last_ad_watch_date,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// Balance returns the balance for the given currency.
func (u *User) Balance(currency Currency) int64 {
	if currency == CurrencyET {
		return u.ETBalance
	}
	return u.PTBalance
}
