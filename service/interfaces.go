package service

import (
	"context"
	"time"

	"predictarena/events"
	"predictarena/models"
)

// UserRepository defines user data access, including the guarded
// balance mutations that back every settlement operation.
type UserRepository interface {
	Create(ctx context.Context, email, username string, startingET, startingPT int64) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetForUpdate(ctx context.Context, userID int64) (*models.User, error)
	GetByChallengeCode(ctx context.Context, code string) (*models.User, error)
	AddBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error
	DeductBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error
	RecordWin(ctx context.Context, userID int64) error
	RecordLoss(ctx context.Context, userID int64) error
	IncrementHead2HeadWins(ctx context.Context, userID int64) error
	IncrementHead2HeadLosses(ctx context.Context, userID int64) error
	SetChallengeCode(ctx context.Context, userID int64, code string) error
	SetPremium(ctx context.Context, userID int64, premium bool) error
	UpdateDailyBonus(ctx context.Context, userID int64, claimedAt time.Time, consecutiveDays int) error
	UpdateAdWatch(ctx context.Context, userID int64, adsWatchedToday int, watchDate time.Time) error
	GetMonthlyResetCandidates(ctx context.Context) ([]*models.User, error)
	ApplyMonthlyReset(ctx context.Context, userID int64, resetPT int64) error
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// TransactionRepository appends to and reads from the immutable ledger.
type TransactionRepository interface {
	Record(ctx context.Context, txn *models.Transaction) error
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// PredictionRepository defines prediction data access.
type PredictionRepository interface {
	Create(ctx context.Context, p *models.Prediction) error
	GetByID(ctx context.Context, predictionID int64) (*models.Prediction, error)
	List(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error)
	GetPendingResolution(ctx context.Context) ([]*models.Prediction, error)
	MarkResolved(ctx context.Context, predictionID int64, correctOption string) (bool, error)
	CloseExpired(ctx context.Context) ([]int64, error)
}

// VoteRepository defines vote data access.
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	GetByUserAndPrediction(ctx context.Context, userID, predictionID int64) (*models.Vote, error)
	GetWinners(ctx context.Context, predictionID int64, option string) ([]*models.Vote, error)
	GetLosingVoterIDs(ctx context.Context, predictionID int64, correctOption string) ([]int64, error)
	CountByUserSince(ctx context.Context, userID int64, since time.Time) (int, error)
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Vote, error)
}

// ChallengeRepository defines head-to-head challenge data access.
type ChallengeRepository interface {
	Create(ctx context.Context, c *models.Challenge) error
	GetByID(ctx context.Context, challengeID int64) (*models.Challenge, error)
	Accept(ctx context.Context, challengeID int64, opponentStake int64, opponentChoice bool) (bool, error)
	MarkResolved(ctx context.Context, challengeID int64, winnerID *int64) (bool, error)
	GetUnresolvedByPrediction(ctx context.Context, predictionID int64) ([]*models.Challenge, error)
	GetPendingByOpponent(ctx context.Context, opponentID int64) ([]*models.Challenge, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error)
	CountMonthlyWins(ctx context.Context, userID int64) (int, error)
}

// SweepstakesRepository defines sweepstakes and entry data access.
type SweepstakesRepository interface {
	Create(ctx context.Context, s *models.Sweepstakes) error
	GetByID(ctx context.Context, sweepstakesID int64) (*models.Sweepstakes, error)
	ListOpen(ctx context.Context) ([]*models.Sweepstakes, error)
	SetOpen(ctx context.Context, sweepstakesID int64, open bool) (bool, error)
	CreateEntry(ctx context.Context, entry *models.SweepstakesEntry) error
	GetEntriesByUser(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error)
}

// AchievementRepository defines achievement data access.
type AchievementRepository interface {
	GetAll(ctx context.Context) ([]*models.Achievement, error)
	GetEarnedIDs(ctx context.Context, userID int64, monthYear string) (map[int64]bool, error)
	Grant(ctx context.Context, ua *models.UserAchievement) (bool, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates a new user with starting balances and an initial ledger entry
	Register(ctx context.Context, email, username string) (*models.User, error)

	// GetProfile retrieves a user's full profile
	GetProfile(ctx context.Context, userID int64) (*models.User, error)

	// GenerateChallengeCode assigns a shareable challenge code, generating one if absent
	GenerateChallengeCode(ctx context.Context, userID int64) (string, error)

	// PurchaseTokens credits ET (plus a PT bonus) for a real-money purchase
	PurchaseTokens(ctx context.Context, userID int64, usdCents int64) (*models.PurchaseResult, error)

	// UpgradeToPremium flips the premium flag after an ET payment
	UpgradeToPremium(ctx context.Context, userID int64) error

	// GetTransactions returns a user's ledger history, newest first
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)

	// GetLeaderboard returns the top users by PT balance
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// VotingService defines the interface for staking on predictions
type VotingService interface {
	// PlaceVote stakes PT on a prediction option; at most one vote per user per prediction
	PlaceVote(ctx context.Context, userID, predictionID int64, option string, ptAmount int64) (*models.VoteResult, error)

	// GetPrediction retrieves a single prediction
	GetPrediction(ctx context.Context, predictionID int64) (*models.Prediction, error)

	// ListPredictions returns predictions filtered by status
	ListPredictions(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error)

	// GetUserVotes returns a user's votes, newest first
	GetUserVotes(ctx context.Context, userID int64, limit int) ([]*models.Vote, error)
}

// ChallengeService defines the interface for head-to-head challenges
type ChallengeService interface {
	// CreateChallenge escrows the challenger's stake and opens a pending challenge
	CreateChallenge(ctx context.Context, challengerID int64, opponentCode string, predictionID int64, stake int64, choice bool) (*models.Challenge, error)

	// AcceptChallenge escrows the opponent's equal stake and activates the challenge
	AcceptChallenge(ctx context.Context, challengeID, opponentID int64, choice bool) (*models.Challenge, error)

	// GetPendingChallenges returns challenges awaiting a user's accept
	GetPendingChallenges(ctx context.Context, opponentID int64) ([]*models.Challenge, error)

	// GetUserChallenges returns all challenges a user participates in
	GetUserChallenges(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error)
}

// ResolutionService defines the interface for closing and settling predictions
type ResolutionService interface {
	// CreatePrediction opens a new prediction (admin only)
	CreatePrediction(ctx context.Context, adminID int64, p *models.Prediction) (*models.Prediction, error)

	// ResolvePrediction settles a prediction exactly once: pays winners,
	// records losses, and settles attached challenges (admin only)
	ResolvePrediction(ctx context.Context, adminID, predictionID int64, correctOption string) (*models.ResolutionResult, error)

	// GetPendingResolutions returns closed predictions awaiting a verdict (admin only)
	GetPendingResolutions(ctx context.Context, adminID int64) ([]*models.Prediction, error)

	// CloseExpiredPredictions sweeps open predictions past their close time
	CloseExpiredPredictions(ctx context.Context) ([]int64, error)
}

// SweepstakesService defines the interface for raffle entries
type SweepstakesService interface {
	// CreateSweepstakes opens a new sweepstakes (admin only)
	CreateSweepstakes(ctx context.Context, adminID int64, s *models.Sweepstakes) (*models.Sweepstakes, error)

	// CloseSweepstakes stops further entries ahead of the draw (admin only)
	CloseSweepstakes(ctx context.Context, adminID, sweepstakesID int64) error

	// Enter buys one ticket, debiting the entry cost
	Enter(ctx context.Context, userID, sweepstakesID int64) (*models.SweepstakesEntry, error)

	// ListOpen returns sweepstakes currently accepting entries
	ListOpen(ctx context.Context) ([]*models.Sweepstakes, error)

	// GetUserEntries returns a user's tickets, newest first
	GetUserEntries(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error)
}

// AchievementService defines the interface for threshold-based bonuses
type AchievementService interface {
	// EvaluateUser grants any newly met achievements and credits their rewards
	EvaluateUser(ctx context.Context, userID int64) error

	// GetUserAchievements returns a user's earned achievements
	GetUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
}

// RewardsService defines the interface for recurring token grants
type RewardsService interface {
	// ClaimDailyBonus credits the escalating daily login bonus, once per day
	ClaimDailyBonus(ctx context.Context, userID int64) (*models.DailyBonusResult, error)

	// WatchAd credits the per-ad reward, capped per day
	WatchAd(ctx context.Context, userID int64) (*models.AdWatchResult, error)

	// RunMonthlyReset resets PT balances and season stats for all due users
	RunMonthlyReset(ctx context.Context) (*models.MonthlyResetResult, error)
}

// EventPublisher defines the interface for publishing events within a
// unit of work. Published events reach subscribers only after commit.
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to all repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	TransactionRepository() TransactionRepository
	PredictionRepository() PredictionRepository
	VoteRepository() VoteRepository
	ChallengeRepository() ChallengeRepository
	SweepstakesRepository() SweepstakesRepository
	AchievementRepository() AchievementRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
