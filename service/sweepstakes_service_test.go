package service

import (
	"context"
	"errors"
	"testing"

	"predictarena/apperrors"
	"predictarena/events"
	"predictarena/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSweepstakesMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockTransactionRepository, *MockSweepstakesRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTxnRepo := new(MockTransactionRepository)
	mockSweepstakesRepo := new(MockSweepstakesRepository)

	mockUoW.SetRepositories(mockUserRepo, mockTxnRepo, nil, nil, nil, mockSweepstakesRepo, nil)

	return mockUoW, mockFactory, mockUserRepo, mockTxnRepo, mockSweepstakesRepo
}

func TestSweepstakesService_Enter_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockTxnRepo, mockSweepstakesRepo := newSweepstakesMocks()
	service := NewSweepstakesService(mockFactory, func(int64) bool { return false })

	sw := &models.Sweepstakes{ID: 3, Title: "Season Pass Raffle", EntryCost: 25, EntryCurrency: models.CurrencyET, IsOpen: true}
	user := &models.User{ID: 5, ETBalance: 200, PTBalance: 100}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSweepstakesRepo.On("GetByID", ctx, int64(3)).Return(sw, nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(5), models.CurrencyET, int64(25)).Return(nil)
	mockTxnRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionTypeSweepstakes && txn.Amount == -25 && txn.Currency == models.CurrencyET
	})).Return(nil)
	mockSweepstakesRepo.On("CreateEntry", ctx, mock.MatchedBy(func(entry *models.SweepstakesEntry) bool {
		return entry.SweepstakesID == 3 && entry.UserID == 5
	})).Return(nil)

	entry, err := service.Enter(ctx, 5, 3)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(175), user.ETBalance)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	change, ok := published[0].(events.BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(200), change.OldBalance)
	assert.Equal(t, int64(175), change.NewBalance)

	mockSweepstakesRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestSweepstakesService_Enter_FreeEntry(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, mockSweepstakesRepo := newSweepstakesMocks()
	service := NewSweepstakesService(mockFactory, func(int64) bool { return false })

	sw := &models.Sweepstakes{ID: 4, Title: "Free Giveaway", EntryCost: 0, EntryCurrency: models.CurrencyPT, IsOpen: true}
	user := &models.User{ID: 5, ETBalance: 200, PTBalance: 100}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSweepstakesRepo.On("GetByID", ctx, int64(4)).Return(sw, nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockSweepstakesRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.SweepstakesEntry")).Return(nil)

	_, err := service.Enter(ctx, 5, 4)

	require.NoError(t, err)
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
	assert.Empty(t, mockUoW.PublishedEvents())
}

func TestSweepstakesService_Enter_Closed(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, mockSweepstakesRepo := newSweepstakesMocks()
	service := NewSweepstakesService(mockFactory, func(int64) bool { return false })

	sw := &models.Sweepstakes{ID: 3, Title: "Past Raffle", EntryCost: 25, EntryCurrency: models.CurrencyET, IsOpen: false}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSweepstakesRepo.On("GetByID", ctx, int64(3)).Return(sw, nil)

	_, err := service.Enter(ctx, 5, 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFailedPrecondition))
	mockUserRepo.AssertNotCalled(t, "DeductBalance")
	mockSweepstakesRepo.AssertNotCalled(t, "CreateEntry")
}

func TestSweepstakesService_Enter_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, mockSweepstakesRepo := newSweepstakesMocks()
	service := NewSweepstakesService(mockFactory, func(int64) bool { return false })

	sw := &models.Sweepstakes{ID: 3, Title: "Season Pass Raffle", EntryCost: 500, EntryCurrency: models.CurrencyET, IsOpen: true}
	user := &models.User{ID: 5, ETBalance: 200}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSweepstakesRepo.On("GetByID", ctx, int64(3)).Return(sw, nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(5), models.CurrencyET, int64(500)).
		Return(apperrors.InsufficientFunds("insufficient et balance"))

	_, err := service.Enter(ctx, 5, 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	mockSweepstakesRepo.AssertNotCalled(t, "CreateEntry")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSweepstakesService_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("closes entries", func(t *testing.T) {
		mockUoW, mockFactory, _, _, mockSweepstakesRepo := newSweepstakesMocks()
		service := NewSweepstakesService(mockFactory, func(id int64) bool { return id == 99 })

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSweepstakesRepo.On("SetOpen", ctx, int64(3), false).Return(true, nil)

		err := service.CloseSweepstakes(ctx, 99, 3)
		require.NoError(t, err)
		mockSweepstakesRepo.AssertExpectations(t)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		_, mockFactory, _, _, _ := newSweepstakesMocks()
		service := NewSweepstakesService(mockFactory, func(int64) bool { return false })

		err := service.CloseSweepstakes(ctx, 5, 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("unknown sweepstakes", func(t *testing.T) {
		mockUoW, mockFactory, _, _, mockSweepstakesRepo := newSweepstakesMocks()
		service := NewSweepstakesService(mockFactory, func(id int64) bool { return id == 99 })

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSweepstakesRepo.On("SetOpen", ctx, int64(42), false).Return(false, nil)

		err := service.CloseSweepstakes(ctx, 99, 42)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		mockUoW.AssertNotCalled(t, "Commit")
	})
}

func TestSweepstakesService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _ := newSweepstakesMocks()
	service := NewSweepstakesService(mockFactory, func(id int64) bool { return id == 99 })

	tests := []struct {
		name    string
		adminID int64
		sw      *models.Sweepstakes
		errCode error
	}{
		{
			name:    "non-admin",
			adminID: 5,
			sw:      &models.Sweepstakes{Title: "Raffle", EntryCost: 10, EntryCurrency: models.CurrencyET},
			errCode: apperrors.ErrPermissionDenied,
		},
		{
			name:    "missing title",
			adminID: 99,
			sw:      &models.Sweepstakes{EntryCost: 10, EntryCurrency: models.CurrencyET},
			errCode: apperrors.ErrInvalidArgument,
		},
		{
			name:    "negative cost",
			adminID: 99,
			sw:      &models.Sweepstakes{Title: "Raffle", EntryCost: -1, EntryCurrency: models.CurrencyET},
			errCode: apperrors.ErrInvalidArgument,
		},
		{
			name:    "bad currency",
			adminID: 99,
			sw:      &models.Sweepstakes{Title: "Raffle", EntryCost: 10, EntryCurrency: "GOLD"},
			errCode: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateSweepstakes(ctx, tt.adminID, tt.sw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.errCode))
		})
	}

	mockFactory.AssertNotCalled(t, "Create")
}
