package service

import (
	"context"
	"fmt"
	"time"

	"predictarena/apperrors"
	"predictarena/events"
	"predictarena/models"

	log "github.com/sirupsen/logrus"
)

type achievementService struct {
	uowFactory UnitOfWorkFactory
}

// NewAchievementService creates a new achievement service
func NewAchievementService(uowFactory UnitOfWorkFactory) AchievementService {
	return &achievementService{
		uowFactory: uowFactory,
	}
}

// RegisterAchievementSubscriber re-evaluates a user's achievements after
// every committed balance change. Evaluation failures are logged and
// swallowed: a missed grant is caught on the next balance change, and
// must never affect the operation that triggered it.
func RegisterAchievementSubscriber(bus *events.Bus, svc AchievementService) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		// Achievement rewards themselves trigger balance changes;
		// skipping them stops the feedback loop
		if e.TransactionType == models.TransactionTypeAchievement {
			return
		}
		if err := svc.EvaluateUser(ctx, e.UserID); err != nil {
			log.WithError(err).WithField("userID", e.UserID).Warn("Achievement evaluation failed")
		}
	})
}

func (s *achievementService) EvaluateUser(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user %d not found", userID)
	}

	now := time.Now()
	monthYear := now.Format("2006-01")

	stats, err := s.collectStats(ctx, uow, user, now)
	if err != nil {
		return err
	}

	achievements, err := uow.AchievementRepository().GetAll(ctx)
	if err != nil {
		return err
	}
	earned, err := uow.AchievementRepository().GetEarnedIDs(ctx, userID, monthYear)
	if err != nil {
		return err
	}

	for _, achievement := range achievements {
		if earned[achievement.ID] {
			continue
		}
		if stats.Value(achievement.RequirementType) < achievement.RequirementValue {
			continue
		}

		ua := &models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
		}
		if achievement.IsMonthly {
			my := monthYear
			ua.MonthYear = &my
		}

		granted, err := uow.AchievementRepository().Grant(ctx, ua)
		if err != nil {
			return err
		}
		if !granted {
			// A concurrent evaluation got here first
			continue
		}

		if achievement.TokenReward > 0 {
			description := fmt.Sprintf("achievement: %s", achievement.Name)
			if err := Credit(ctx, uow, user, models.CurrencyPT, achievement.TokenReward, models.TransactionTypeAchievement, description); err != nil {
				return err
			}
		}

		log.WithFields(log.Fields{
			"userID":      userID,
			"achievement": achievement.Code,
			"reward":      achievement.TokenReward,
		}).Info("Achievement earned")
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *achievementService) collectStats(ctx context.Context, uow UnitOfWork, user *models.User, now time.Time) (models.AchievementStats, error) {
	var stats models.AchievementStats

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthlyPredictions, err := uow.VoteRepository().CountByUserSince(ctx, user.ID, monthStart)
	if err != nil {
		return stats, err
	}

	monthlyH2HWins, err := uow.ChallengeRepository().CountMonthlyWins(ctx, user.ID)
	if err != nil {
		return stats, err
	}

	// Permanent predictions count settled votes only, so wins+losses;
	// the monthly stat counts votes placed this month regardless of outcome
	stats.Predictions = user.TotalWins + user.TotalLosses
	stats.H2HWins = user.Head2HeadWins
	stats.Accuracy = user.AccuracyPercentage
	stats.MonthlyPredictions = monthlyPredictions
	stats.MonthlyH2HWins = monthlyH2HWins

	return stats, nil
}

func (s *achievementService) GetUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	earned, err := uow.AchievementRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return earned, nil
}
