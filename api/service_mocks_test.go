package api

import (
	"context"

	"predictarena/models"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, username string) (*models.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GenerateChallengeCode(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) PurchaseTokens(ctx context.Context, userID int64, usdCents int64) (*models.PurchaseResult, error) {
	args := m.Called(ctx, userID, usdCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseResult), args.Error(1)
}

func (m *MockUserService) UpgradeToPremium(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockUserService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

type MockVotingService struct {
	mock.Mock
}

func (m *MockVotingService) PlaceVote(ctx context.Context, userID, predictionID int64, option string, ptAmount int64) (*models.VoteResult, error) {
	args := m.Called(ctx, userID, predictionID, option, ptAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteResult), args.Error(1)
}

func (m *MockVotingService) GetPrediction(ctx context.Context, predictionID int64) (*models.Prediction, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockVotingService) ListPredictions(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockVotingService) GetUserVotes(ctx context.Context, userID int64, limit int) ([]*models.Vote, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

type MockChallengeService struct {
	mock.Mock
}

func (m *MockChallengeService) CreateChallenge(ctx context.Context, challengerID int64, opponentCode string, predictionID int64, stake int64, choice bool) (*models.Challenge, error) {
	args := m.Called(ctx, challengerID, opponentCode, predictionID, stake, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) AcceptChallenge(ctx context.Context, challengeID, opponentID int64, choice bool) (*models.Challenge, error) {
	args := m.Called(ctx, challengeID, opponentID, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) GetPendingChallenges(ctx context.Context, opponentID int64) ([]*models.Challenge, error) {
	args := m.Called(ctx, opponentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) GetUserChallenges(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Challenge), args.Error(1)
}

type MockResolutionService struct {
	mock.Mock
}

func (m *MockResolutionService) CreatePrediction(ctx context.Context, adminID int64, p *models.Prediction) (*models.Prediction, error) {
	args := m.Called(ctx, adminID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockResolutionService) ResolvePrediction(ctx context.Context, adminID, predictionID int64, correctOption string) (*models.ResolutionResult, error) {
	args := m.Called(ctx, adminID, predictionID, correctOption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResolutionResult), args.Error(1)
}

func (m *MockResolutionService) GetPendingResolutions(ctx context.Context, adminID int64) ([]*models.Prediction, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockResolutionService) CloseExpiredPredictions(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockSweepstakesService struct {
	mock.Mock
}

func (m *MockSweepstakesService) CreateSweepstakes(ctx context.Context, adminID int64, s *models.Sweepstakes) (*models.Sweepstakes, error) {
	args := m.Called(ctx, adminID, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sweepstakes), args.Error(1)
}

func (m *MockSweepstakesService) CloseSweepstakes(ctx context.Context, adminID, sweepstakesID int64) error {
	args := m.Called(ctx, adminID, sweepstakesID)
	return args.Error(0)
}

func (m *MockSweepstakesService) Enter(ctx context.Context, userID, sweepstakesID int64) (*models.SweepstakesEntry, error) {
	args := m.Called(ctx, userID, sweepstakesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SweepstakesEntry), args.Error(1)
}

func (m *MockSweepstakesService) ListOpen(ctx context.Context) ([]*models.Sweepstakes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sweepstakes), args.Error(1)
}

func (m *MockSweepstakesService) GetUserEntries(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SweepstakesEntry), args.Error(1)
}

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) EvaluateUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAchievementService) GetUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAchievement), args.Error(1)
}

type MockRewardsService struct {
	mock.Mock
}

func (m *MockRewardsService) ClaimDailyBonus(ctx context.Context, userID int64) (*models.DailyBonusResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyBonusResult), args.Error(1)
}

func (m *MockRewardsService) WatchAd(ctx context.Context, userID int64) (*models.AdWatchResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdWatchResult), args.Error(1)
}

func (m *MockRewardsService) RunMonthlyReset(ctx context.Context) (*models.MonthlyResetResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlyResetResult), args.Error(1)
}
