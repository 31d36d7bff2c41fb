package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"predictarena/apperrors"
	"predictarena/events"
	"predictarena/models"

	log "github.com/sirupsen/logrus"
)

type resolutionService struct {
	uowFactory UnitOfWorkFactory
	isAdmin    func(userID int64) bool
}

// NewResolutionService creates a new resolution service. The isAdmin
// check gates prediction creation and settlement.
func NewResolutionService(uowFactory UnitOfWorkFactory, isAdmin func(userID int64) bool) ResolutionService {
	return &resolutionService{
		uowFactory: uowFactory,
		isAdmin:    isAdmin,
	}
}

func (s *resolutionService) CreatePrediction(ctx context.Context, adminID int64, p *models.Prediction) (*models.Prediction, error) {
	if !s.isAdmin(adminID) {
		return nil, apperrors.PermissionDenied("user %d may not create predictions", adminID)
	}
	if p.Question == "" {
		return nil, apperrors.InvalidArgument("question is required")
	}
	if len(p.Options) < 2 {
		return nil, apperrors.InvalidArgument("at least two options are required")
	}
	seen := make(map[string]bool, len(p.Options))
	for _, o := range p.Options {
		if o == "" {
			return nil, apperrors.InvalidArgument("options must be non-empty")
		}
		if seen[o] {
			return nil, apperrors.InvalidArgument("duplicate option %q", o)
		}
		seen[o] = true
	}
	for option, multiplier := range p.Odds {
		if !seen[option] {
			return nil, apperrors.InvalidArgument("odds reference unknown option %q", option)
		}
		if multiplier <= 0 {
			return nil, apperrors.InvalidArgument("odds for %q must be positive", option)
		}
	}
	if !p.ClosesAt.After(time.Now()) {
		return nil, apperrors.InvalidArgument("close time must be in the future")
	}
	if p.RequiredPT < 0 {
		return nil, apperrors.InvalidArgument("minimum stake cannot be negative")
	}
	if p.PredictionType == "" {
		p.PredictionType = models.PredictionTypeDaily
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PredictionRepository().Create(ctx, p); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p, nil
}

func (s *resolutionService) ResolvePrediction(ctx context.Context, adminID, predictionID int64, correctOption string) (*models.ResolutionResult, error) {
	if !s.isAdmin(adminID) {
		return nil, apperrors.PermissionDenied("user %d may not resolve predictions", adminID)
	}

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
	if !prediction.HasOption(correctOption) {
		return nil, apperrors.InvalidArgument("option %q is not one of the prediction's options", correctOption)
	}

	// The conditioned update is the settlement gate: whichever resolver
	// flips the status first settles, everyone else sees zero rows
	resolved, err := uow.PredictionRepository().MarkResolved(ctx, predictionID, correctOption)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, apperrors.FailedPrecondition("prediction %d is already resolved", predictionID)
	}
	prediction.Status = models.PredictionStatusResolved
	prediction.CorrectOption = &correctOption

	result := &models.ResolutionResult{Prediction: prediction}

	if err := s.settleVotes(ctx, uow, prediction, correctOption, result); err != nil {
		return nil, err
	}
	if err := s.settleChallenges(ctx, uow, prediction, result); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PredictionResolvedEvent{
		PredictionID:       predictionID,
		CorrectOption:      correctOption,
		WinnersCount:       result.WinnersCount,
		TotalPTDistributed: result.TotalPTDistributed,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"predictionID": predictionID,
		"winners":      result.WinnersCount,
		"losers":       result.LosersCount,
		"distributed":  result.TotalPTDistributed,
		"challenges":   result.ChallengesResolved,
		"failed":       len(result.FailedUserIDs),
	}).Info("Prediction resolved")

	return result, nil
}

// settleVotes pays every winner floor(stake * odds) and records losses
// for everyone else. A failed payout is collected rather than aborting
// the whole settlement, so one bad account cannot hold everyone's
// winnings hostage.
func (s *resolutionService) settleVotes(ctx context.Context, uow UnitOfWork, prediction *models.Prediction, correctOption string, result *models.ResolutionResult) error {
	winners, err := uow.VoteRepository().GetWinners(ctx, prediction.ID, correctOption)
	if err != nil {
		return err
	}

	multiplier := prediction.OddsMultiplier(correctOption)
	description := fmt.Sprintf("payout for prediction %d (%s)", prediction.ID, correctOption)

	for _, vote := range winners {
		payout := int64(math.Floor(float64(vote.PTSpent) * multiplier))

		user, err := uow.UserRepository().GetByID(ctx, vote.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			result.FailedUserIDs = append(result.FailedUserIDs, vote.UserID)
			log.WithField("userID", vote.UserID).Warn("Skipping payout for missing user")
			continue
		}

		if err := Credit(ctx, uow, user, models.CurrencyPT, payout, models.TransactionTypeWin, description); err != nil {
			return err
		}
		if err := uow.UserRepository().RecordWin(ctx, user.ID); err != nil {
			return err
		}

		result.WinnersCount++
		result.TotalPTDistributed += payout
	}

	loserIDs, err := uow.VoteRepository().GetLosingVoterIDs(ctx, prediction.ID, correctOption)
	if err != nil {
		return err
	}
	for _, userID := range loserIDs {
		if err := uow.UserRepository().RecordLoss(ctx, userID); err != nil {
			return err
		}
		result.LosersCount++
	}

	return nil
}

// settleChallenges decides every challenge attached to the prediction.
// Active challenges pay the full pot to the sole correct party, or
// refund both stakes on a draw. Never-accepted challenges refund the
// challenger's escrowed stake.
func (s *resolutionService) settleChallenges(ctx context.Context, uow UnitOfWork, prediction *models.Prediction, result *models.ResolutionResult) error {
	challenges, err := uow.ChallengeRepository().GetUnresolvedByPrediction(ctx, prediction.ID)
	if err != nil {
		return err
	}
	if len(challenges) == 0 {
		return nil
	}

	correctAnswer := prediction.BooleanOutcome()

	for _, challenge := range challenges {
		resolved, err := uow.ChallengeRepository().MarkResolved(ctx, challenge.ID, challenge.Outcome(correctAnswer))
		if err != nil {
			return err
		}
		if !resolved {
			continue
		}

		outcome, err := s.settleOneChallenge(ctx, uow, challenge, correctAnswer)
		if err != nil {
			return err
		}

		uow.EventBus().Publish(events.ChallengeResolvedEvent{
			ChallengeID: challenge.ID,
			WinnerID:    outcome.WinnerID,
			AmountWon:   outcome.AmountWon,
			Draw:        outcome.Draw,
		})
		result.ChallengesResolved++
	}

	return nil
}

func (s *resolutionService) settleOneChallenge(ctx context.Context, uow UnitOfWork, challenge *models.Challenge, correctAnswer bool) (*models.ChallengeOutcome, error) {
	outcome := &models.ChallengeOutcome{Challenge: challenge}

	// Pending challenge: only the challenger's stake is escrowed
	if challenge.Status == models.ChallengeStatusPending {
		challenger, err := uow.UserRepository().GetByID(ctx, challenge.ChallengerID)
		if err != nil {
			return nil, err
		}
		if challenger != nil {
			description := fmt.Sprintf("unaccepted challenge %d refund", challenge.ID)
			if err := Credit(ctx, uow, challenger, models.CurrencyPT, challenge.ChallengerStake, models.TransactionTypeH2HDraw, description); err != nil {
				return nil, err
			}
		}
		outcome.Draw = true
		return outcome, nil
	}

	winnerID := challenge.Outcome(correctAnswer)
	if winnerID == nil {
		// Draw: each party gets their own stake back
		refunds := []struct {
			userID int64
			stake  int64
		}{
			{challenge.ChallengerID, challenge.ChallengerStake},
			{challenge.OpponentID, *challenge.OpponentStake},
		}
		description := fmt.Sprintf("challenge %d draw refund", challenge.ID)
		for _, r := range refunds {
			user, err := uow.UserRepository().GetByID(ctx, r.userID)
			if err != nil {
				return nil, err
			}
			if user == nil {
				continue
			}
			if err := Credit(ctx, uow, user, models.CurrencyPT, r.stake, models.TransactionTypeH2HDraw, description); err != nil {
				return nil, err
			}
		}
		outcome.Draw = true
		return outcome, nil
	}

	loserID := challenge.ChallengerID
	if *winnerID == challenge.ChallengerID {
		loserID = challenge.OpponentID
	}

	winner, err := uow.UserRepository().GetByID(ctx, *winnerID)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, apperrors.NotFound("challenge winner %d not found", *winnerID)
	}

	pot := challenge.TotalPot()
	description := fmt.Sprintf("challenge %d win", challenge.ID)
	if err := Credit(ctx, uow, winner, models.CurrencyPT, pot, models.TransactionTypeH2HWin, description); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().IncrementHead2HeadWins(ctx, *winnerID); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().IncrementHead2HeadLosses(ctx, loserID); err != nil {
		return nil, err
	}

	outcome.WinnerID = winnerID
	outcome.AmountWon = pot
	return outcome, nil
}

func (s *resolutionService) GetPendingResolutions(ctx context.Context, adminID int64) ([]*models.Prediction, error) {
	if !s.isAdmin(adminID) {
		return nil, apperrors.PermissionDenied("user %d may not list pending resolutions", adminID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pending, err := uow.PredictionRepository().GetPendingResolution(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pending, nil
}

func (s *resolutionService) CloseExpiredPredictions(ctx context.Context) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ids, err := uow.PredictionRepository().CloseExpired(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if len(ids) > 0 {
		log.WithField("count", len(ids)).Info("Closed expired predictions")
	}

	return ids, nil
}
