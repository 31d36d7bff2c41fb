package service

import (
	"context"
	"fmt"
	"time"

	"predictarena/apperrors"
	"predictarena/models"
)

type challengeService struct {
	uowFactory UnitOfWorkFactory
}

// NewChallengeService creates a new challenge service
func NewChallengeService(uowFactory UnitOfWorkFactory) ChallengeService {
	return &challengeService{
		uowFactory: uowFactory,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context, challengerID int64, opponentCode string, predictionID int64, stake int64, choice bool) (*models.Challenge, error) {
	if stake <= 0 {
		return nil, apperrors.InvalidArgument("stake must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	opponent, err := uow.UserRepository().GetByChallengeCode(ctx, opponentCode)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, apperrors.NotFound("no user with challenge code %s", opponentCode)
	}
	if opponent.ID == challengerID {
		return nil, apperrors.InvalidArgument("cannot challenge yourself")
	}

	prediction, err := uow.PredictionRepository().GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, apperrors.NotFound("prediction %d not found", predictionID)
	}
	if !prediction.IsVotable(time.Now()) {
		return nil, apperrors.FailedPrecondition("prediction %d is no longer accepting challenges", predictionID)
	}

	challenger, err := uow.UserRepository().GetByID(ctx, challengerID)
	if err != nil {
		return nil, err
	}
	if challenger == nil {
		return nil, apperrors.NotFound("user %d not found", challengerID)
	}

	// Escrow the challenger's stake up front; a declined or forgotten
	// challenge still resolves at settlement via the draw path
	description := fmt.Sprintf("challenge stake on prediction %d", predictionID)
	if err := Debit(ctx, uow, challenger, models.CurrencyPT, stake, models.TransactionTypeH2HStake, description); err != nil {
		return nil, err
	}

	challenge := &models.Challenge{
		PredictionID:     predictionID,
		ChallengerID:     challengerID,
		OpponentID:       opponent.ID,
		ChallengerStake:  stake,
		ChallengerChoice: choice,
	}
	if err := uow.ChallengeRepository().Create(ctx, challenge); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return challenge, nil
}

func (s *challengeService) AcceptChallenge(ctx context.Context, challengeID, opponentID int64, choice bool) (*models.Challenge, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	challenge, err := uow.ChallengeRepository().GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, apperrors.NotFound("challenge %d not found", challengeID)
	}
	if challenge.OpponentID != opponentID {
		return nil, apperrors.PermissionDenied("challenge %d is not addressed to user %d", challengeID, opponentID)
	}
	if !challenge.CanBeAccepted(opponentID) {
		return nil, apperrors.FailedPrecondition("challenge %d is not pending", challengeID)
	}

	prediction, err := uow.PredictionRepository().GetByID(ctx, challenge.PredictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil || !prediction.IsVotable(time.Now()) {
		return nil, apperrors.FailedPrecondition("underlying prediction is no longer open")
	}

	opponent, err := uow.UserRepository().GetByID(ctx, opponentID)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, apperrors.NotFound("user %d not found", opponentID)
	}

	// Opponent matches the challenger's stake exactly
	stake := challenge.ChallengerStake
	description := fmt.Sprintf("challenge stake on prediction %d", challenge.PredictionID)
	if err := Debit(ctx, uow, opponent, models.CurrencyPT, stake, models.TransactionTypeH2HStake, description); err != nil {
		return nil, err
	}

	accepted, err := uow.ChallengeRepository().Accept(ctx, challengeID, stake, choice)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, apperrors.FailedPrecondition("challenge %d is not pending", challengeID)
	}

	challenge, err = uow.ChallengeRepository().GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return challenge, nil
}

func (s *challengeService) GetPendingChallenges(ctx context.Context, opponentID int64) ([]*models.Challenge, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	challenges, err := uow.ChallengeRepository().GetPendingByOpponent(ctx, opponentID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return challenges, nil
}

func (s *challengeService) GetUserChallenges(ctx context.Context, userID int64, limit int) ([]*models.Challenge, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	challenges, err := uow.ChallengeRepository().ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return challenges, nil
}
