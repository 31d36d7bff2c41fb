package service

import (
	"context"
	"time"

	"predictarena/events"
	"predictarena/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, username string, startingET, startingPT int64) (*models.User, error) {
	args := m.Called(ctx, email, username, startingET, startingPT)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByChallengeCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error {
	args := m.Called(ctx, userID, currency, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, userID int64, currency models.Currency, amount int64) error {
	args := m.Called(ctx, userID, currency, amount)
	return args.Error(0)
}

func (m *MockUserRepository) RecordWin(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLoss(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementHead2HeadWins(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementHead2HeadLosses(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) SetChallengeCode(ctx context.Context, userID int64, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockUserRepository) SetPremium(ctx context.Context, userID int64, premium bool) error {
	args := m.Called(ctx, userID, premium)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateDailyBonus(ctx context.Context, userID int64, claimedAt time.Time, consecutiveDays int) error {
	args := m.Called(ctx, userID, claimedAt, consecutiveDays)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAdWatch(ctx context.Context, userID int64, adsWatchedToday int, watchDate time.Time) error {
	args := m.Called(ctx, userID, adsWatchedToday, watchDate)
	return args.Error(0)
}

func (m *MockUserRepository) GetMonthlyResetCandidates(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ApplyMonthlyReset(ctx context.Context, userID int64, resetPT int64) error {
	args := m.Called(ctx, userID, resetPT)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, predictionID int64) (*models.Prediction, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) List(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetPendingResolution(ctx context.Context) ([]*models.Prediction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) MarkResolved(ctx context.Context, predictionID int64, correctOption string) (bool, error) {
	args := m.Called(ctx, predictionID, correctOption)
	return args.Bool(0), args.Error(1)
}

func (m *MockPredictionRepository) CloseExpired(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) GetByUserAndPrediction(ctx context.Context, userID, predictionID int64) (*models.Vote, error) {
	args := m.Called(ctx, userID, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) GetWinners(ctx context.Context, predictionID int64, option string) ([]*models.Vote, error) {
	args := m.Called(ctx, predictionID, option)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) GetLosingVoterIDs(ctx context.Context, predictionID int64, correctOption string) ([]int64, error) {
	args := m.Called(ctx, predictionID, correctOption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockVoteRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockVoteRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Vote, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

// MockChallengeRepository is a mock implementation of ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetByID(ctx context.Context, challengeID int64) (*models.Challenge, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) Accept(ctx context.Context, challengeID int64, opponentStake int64, opponentChoice bool) (bool, error) {
	args := m.Called(ctx, challengeID, opponentStake, opponentChoice)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallengeRepository) MarkResolved(ctx context.Context, challengeID int64, winnerID *int64) (bool, error) {
	args := m.Called(ctx, challengeID, winnerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallengeRepository) GetUnresolvedByPrediction(ctx context.Context, predictionID int64) ([]*models.Challenge, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) GetPendingByOpponent(ctx context.Context, opponentID int64) ([]*models.Challenge, error) {
	args := m.Called(ctx, opponentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) CountMonthlyWins(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockSweepstakesRepository is a mock implementation of SweepstakesRepository
type MockSweepstakesRepository struct {
	mock.Mock
}

func (m *MockSweepstakesRepository) Create(ctx context.Context, s *models.Sweepstakes) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSweepstakesRepository) GetByID(ctx context.Context, sweepstakesID int64) (*models.Sweepstakes, error) {
	args := m.Called(ctx, sweepstakesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sweepstakes), args.Error(1)
}

func (m *MockSweepstakesRepository) ListOpen(ctx context.Context) ([]*models.Sweepstakes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sweepstakes), args.Error(1)
}

func (m *MockSweepstakesRepository) SetOpen(ctx context.Context, sweepstakesID int64, open bool) (bool, error) {
	args := m.Called(ctx, sweepstakesID, open)
	return args.Bool(0), args.Error(1)
}

func (m *MockSweepstakesRepository) CreateEntry(ctx context.Context, entry *models.SweepstakesEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSweepstakesRepository) GetEntriesByUser(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SweepstakesEntry), args.Error(1)
}

// MockAchievementRepository is a mock implementation of AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) GetAll(ctx context.Context) ([]*models.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) GetEarnedIDs(ctx context.Context, userID int64, monthYear string) (map[int64]bool, error) {
	args := m.Called(ctx, userID, monthYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockAchievementRepository) Grant(ctx context.Context, ua *models.UserAchievement) (bool, error) {
	args := m.Called(ctx, ua)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) GetByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAchievement), args.Error(1)
}

// CapturingEventPublisher records published events for assertions
type CapturingEventPublisher struct {
	Events []events.Event
}

func (p *CapturingEventPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are plain fields set via SetRepositories; Begin/Commit/Rollback go
// through the mock so tests can assert the transaction lifecycle.
type MockUnitOfWork struct {
	mock.Mock

	userRepo        UserRepository
	transactionRepo TransactionRepository
	predictionRepo  PredictionRepository
	voteRepo        VoteRepository
	challengeRepo   ChallengeRepository
	sweepstakesRepo SweepstakesRepository
	achievementRepo AchievementRepository
	publisher       *CapturingEventPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(
	user UserRepository,
	transaction TransactionRepository,
	prediction PredictionRepository,
	vote VoteRepository,
	challenge ChallengeRepository,
	sweepstakes SweepstakesRepository,
	achievement AchievementRepository,
) {
	m.userRepo = user
	m.transactionRepo = transaction
	m.predictionRepo = prediction
	m.voteRepo = vote
	m.challengeRepo = challenge
	m.sweepstakesRepo = sweepstakes
	m.achievementRepo = achievement
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) PredictionRepository() PredictionRepository {
	return m.predictionRepo
}

func (m *MockUnitOfWork) VoteRepository() VoteRepository {
	return m.voteRepo
}

func (m *MockUnitOfWork) ChallengeRepository() ChallengeRepository {
	return m.challengeRepo
}

func (m *MockUnitOfWork) SweepstakesRepository() SweepstakesRepository {
	return m.sweepstakesRepo
}

func (m *MockUnitOfWork) AchievementRepository() AchievementRepository {
	return m.achievementRepo
}

// EventBus returns a capturing publisher so tests can assert on
// published events without real subscribers.
func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		m.publisher = &CapturingEventPublisher{}
	}
	return m.publisher
}

// PublishedEvents returns everything published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
