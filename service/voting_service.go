package service

import (
	"context"
	"fmt"
	"time"

	"predictarena/apperrors"
	"predictarena/models"
)

type votingService struct {
	uowFactory UnitOfWorkFactory
}

// NewVotingService creates a new voting service
func NewVotingService(uowFactory UnitOfWorkFactory) VotingService {
	return &votingService{
		uowFactory: uowFactory,
	}
}

func (s *votingService) PlaceVote(ctx context.Context, userID, predictionID int64, option string, ptAmount int64) (*models.VoteResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prediction, err := uow.PredictionRepository().GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, apperrors.NotFound("prediction %d not found", predictionID)
	}
	if !prediction.IsVotable(time.Now()) {
		return nil, apperrors.FailedPrecondition("prediction %d is no longer accepting votes", predictionID)
	}
	if !prediction.HasOption(option) {
		return nil, apperrors.InvalidArgument("option %q is not one of the prediction's options", option)
	}
	if ptAmount <= 0 {
		return nil, apperrors.InvalidArgument("stake must be positive")
	}
	if ptAmount < prediction.RequiredPT {
		return nil, apperrors.InvalidArgument("stake %d is below the minimum of %d PT", ptAmount, prediction.RequiredPT)
	}

	existing, err := uow.VoteRepository().GetByUserAndPrediction(ctx, userID, predictionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("user %d already voted on prediction %d", userID, predictionID)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	description := fmt.Sprintf("vote on prediction %d (%s)", predictionID, option)
	if err := Debit(ctx, uow, user, models.CurrencyPT, ptAmount, models.TransactionTypeVote, description); err != nil {
		return nil, err
	}

	vote := &models.Vote{
		UserID:         userID,
		PredictionID:   predictionID,
		OptionSelected: option,
		PTSpent:        ptAmount,
	}
	if err := uow.VoteRepository().Create(ctx, vote); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.VoteResult{Vote: vote, NewPTBalance: user.PTBalance}, nil
}

func (s *votingService) GetPrediction(ctx context.Context, predictionID int64) (*models.Prediction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prediction, err := uow.PredictionRepository().GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, apperrors.NotFound("prediction %d not found", predictionID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return prediction, nil
}

func (s *votingService) ListPredictions(ctx context.Context, status models.PredictionStatus, limit int) ([]*models.Prediction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	predictions, err := uow.PredictionRepository().List(ctx, status, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return predictions, nil
}

func (s *votingService) GetUserVotes(ctx context.Context, userID int64, limit int) ([]*models.Vote, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	votes, err := uow.VoteRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return votes, nil
}
