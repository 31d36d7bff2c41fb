package models

// LeaderboardEntry is one row of the PT leaderboard.
type LeaderboardEntry struct {
	Rank               int     `db:"-" json:"rank"`
	UserID             int64   `db:"id" json:"user_id"`
	Username           string  `db:"username" json:"username"`
	PTBalance          int64   `db:"pt_balance" json:"pt_balance"`
	Streak             int     `db:"streak" json:"streak"`
	TotalWins          int     `db:"total_wins" json:"total_wins"`
	AccuracyPercentage float64 `db:"accuracy_percentage" json:"accuracy_percentage"`
}

// DailyBonusResult is returned by the daily login bonus claim.
type DailyBonusResult struct {
	BonusAmount     int64 `json:"bonus_amount"`
	NewPTBalance    int64 `json:"new_pt_balance"`
	ConsecutiveDays int   `json:"consecutive_days"`
	NextBonusAmount int64 `json:"next_bonus_amount"`
}

// AdWatchResult is returned after crediting an ad-watch reward.
type AdWatchResult struct {
	TokensEarned    int64 `json:"tokens_earned"`
	AdsWatchedToday int   `json:"ads_watched_today"`
	MaxAdsPerDay    int   `json:"max_ads_per_day"`
	NewPTBalance    int64 `json:"new_pt_balance"`
}

// PurchaseResult is returned after a token purchase.
type PurchaseResult struct {
	ETAdded      int64 `json:"et_added"`
	PTAdded      int64 `json:"pt_added"`
	NewETBalance int64 `json:"new_et_balance"`
	NewPTBalance int64 `json:"new_pt_balance"`
}

// MonthlyResetResult summarizes a monthly reset sweep.
type MonthlyResetResult struct {
	UsersReset int `json:"users_reset"`
}
