package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"predictarena/apperrors"
	"predictarena/events"
	"predictarena/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVotingMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockTransactionRepository, *MockPredictionRepository, *MockVoteRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTxnRepo := new(MockTransactionRepository)
	mockPredictionRepo := new(MockPredictionRepository)
	mockVoteRepo := new(MockVoteRepository)

	mockUoW.SetRepositories(mockUserRepo, mockTxnRepo, mockPredictionRepo, mockVoteRepo, nil, nil, nil)

	return mockUoW, mockFactory, mockUserRepo, mockTxnRepo, mockPredictionRepo, mockVoteRepo
}

func openPrediction(id int64) *models.Prediction {
	return &models.Prediction{
		ID:         id,
		Question:   "Will the home team win?",
		Options:    []string{"Yes", "No"},
		RequiredPT: 10,
		Status:     models.PredictionStatusOpen,
		ClosesAt:   time.Now().Add(time.Hour),
	}
}

func TestVotingService_PlaceVote_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockTxnRepo, mockPredictionRepo, mockVoteRepo := newVotingMocks()
	service := NewVotingService(mockFactory)

	user := &models.User{ID: 7, Username: "alice", PTBalance: 100}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)
	mockVoteRepo.On("GetByUserAndPrediction", ctx, int64(7), int64(1)).Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, int64(7)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(7), models.CurrencyPT, int64(20)).Return(nil)

	mockTxnRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 7 &&
			txn.Amount == -20 &&
			txn.Currency == models.CurrencyPT &&
			txn.Type == models.TransactionTypeVote
	})).Return(nil)

	mockVoteRepo.On("Create", ctx, mock.MatchedBy(func(v *models.Vote) bool {
		return v.UserID == 7 && v.PredictionID == 1 && v.OptionSelected == "Yes" && v.PTSpent == 20
	})).Return(nil)

	result, err := service.PlaceVote(ctx, 7, 1, "Yes", 20)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Yes", result.Vote.OptionSelected)
	assert.Equal(t, int64(80), result.NewPTBalance)
	assert.Equal(t, int64(80), user.PTBalance)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	change := published[0].(events.BalanceChangeEvent)
	assert.Equal(t, int64(100), change.OldBalance)
	assert.Equal(t, int64(80), change.NewBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
	mockVoteRepo.AssertExpectations(t)
}

func TestVotingService_PlaceVote_DuplicateVote(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, mockPredictionRepo, mockVoteRepo := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)
	mockVoteRepo.On("GetByUserAndPrediction", ctx, int64(7), int64(1)).Return(&models.Vote{ID: 3}, nil)

	result, err := service.PlaceVote(ctx, 7, 1, "Yes", 20)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
}

func TestVotingService_PlaceVote_ClosedPrediction(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, mockVoteRepo := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	closed := openPrediction(1)
	closed.Status = models.PredictionStatusClosed

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(closed, nil)

	_, err := service.PlaceVote(ctx, 7, 1, "Yes", 20)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFailedPrecondition))
	mockVoteRepo.AssertNotCalled(t, "Create")
}

func TestVotingService_PlaceVote_PastCloseTime(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, _ := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Still open in the database but past its close time
	expired := openPrediction(1)
	expired.ClosesAt = time.Now().Add(-time.Minute)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(expired, nil)

	_, err := service.PlaceVote(ctx, 7, 1, "Yes", 20)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFailedPrecondition))
}

func TestVotingService_PlaceVote_InvalidOption(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, _ := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)

	_, err := service.PlaceVote(ctx, 7, 1, "Maybe", 20)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestVotingService_PlaceVote_BelowMinimumStake(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, _ := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)

	_, err := service.PlaceVote(ctx, 7, 1, "Yes", 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestVotingService_PlaceVote_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, mockPredictionRepo, mockVoteRepo := newVotingMocks()
	service := NewVotingService(mockFactory)

	user := &models.User{ID: 7, Username: "alice", PTBalance: 10}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)
	mockVoteRepo.On("GetByUserAndPrediction", ctx, int64(7), int64(1)).Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, int64(7)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(7), models.CurrencyPT, int64(50)).
		Return(apperrors.InsufficientFunds("insufficient PT balance: have 10, need 50"))

	_, err := service.PlaceVote(ctx, 7, 1, "Yes", 50)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	mockVoteRepo.AssertNotCalled(t, "Create")
	assert.Empty(t, mockUoW.PublishedEvents())
}

func TestVotingService_PlaceVote_UnknownPrediction(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, _ := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPredictionRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	_, err := service.PlaceVote(ctx, 7, 42, "Yes", 20)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestVotingService_PlaceVote_NonPositiveStake(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPredictionRepo, _ := newVotingMocks()
	service := NewVotingService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// The prediction is checked first, so a bad stake on a missing
	// prediction reports the missing prediction
	mockPredictionRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)
	_, err := service.PlaceVote(ctx, 7, 42, "Yes", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	mockPredictionRepo.On("GetByID", ctx, int64(1)).Return(openPrediction(1), nil)
	_, err = service.PlaceVote(ctx, 7, 1, "Yes", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = service.PlaceVote(ctx, 7, 1, "Yes", -5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}
