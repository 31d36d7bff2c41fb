package service

import (
	"context"
	"fmt"
	"time"

	"predictarena/apperrors"
	"predictarena/config"
	"predictarena/events"
	"predictarena/models"

	log "github.com/sirupsen/logrus"
)

const (
	dailyBonusBase      = 50
	dailyBonusIncrement = 10
	dailyBonusCap       = 200
)

type rewardsService struct {
	uowFactory UnitOfWorkFactory
}

// NewRewardsService creates a new rewards service
func NewRewardsService(uowFactory UnitOfWorkFactory) RewardsService {
	return &rewardsService{
		uowFactory: uowFactory,
	}
}

// dailyBonusAmount escalates with the login streak, capped so a long
// streak doesn't mint unbounded PT.
func dailyBonusAmount(consecutiveDays int) int64 {
	amount := int64(dailyBonusBase + dailyBonusIncrement*(consecutiveDays-1))
	if amount > dailyBonusCap {
		return dailyBonusCap
	}
	return amount
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *rewardsService) ClaimDailyBonus(ctx context.Context, userID int64) (*models.DailyBonusResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Row lock: two concurrent claims serialize here, the second sees
	// the updated claim timestamp
	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	now := time.Now()
	if user.LastLoginBonus != nil && sameDay(*user.LastLoginBonus, now) {
		return nil, apperrors.FailedPrecondition("daily bonus already claimed today")
	}

	consecutiveDays := 1
	if user.LastLoginBonus != nil && sameDay(*user.LastLoginBonus, now.AddDate(0, 0, -1)) {
		consecutiveDays = user.ConsecutiveLoginDays + 1
	}

	bonus := dailyBonusAmount(consecutiveDays)
	description := fmt.Sprintf("daily login bonus (day %d)", consecutiveDays)
	if err := Credit(ctx, uow, user, models.CurrencyPT, bonus, models.TransactionTypeBonus, description); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().UpdateDailyBonus(ctx, userID, now, consecutiveDays); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DailyBonusResult{
		BonusAmount:     bonus,
		NewPTBalance:    user.PTBalance,
		ConsecutiveDays: consecutiveDays,
		NextBonusAmount: dailyBonusAmount(consecutiveDays + 1),
	}, nil
}

func (s *rewardsService) WatchAd(ctx context.Context, userID int64) (*models.AdWatchResult, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	now := time.Now()
	watchedToday := user.AdsWatchedToday
	if user.LastAdWatchDate == nil || !sameDay(*user.LastAdWatchDate, now) {
		watchedToday = 0
	}
	if watchedToday >= cfg.MaxAdsPerDay {
		return nil, apperrors.FailedPrecondition("daily ad limit of %d reached", cfg.MaxAdsPerDay)
	}

	if err := Credit(ctx, uow, user, models.CurrencyPT, cfg.TokensPerAd, models.TransactionTypeAdWatch, "ad watch reward"); err != nil {
		return nil, err
	}

	watchedToday++
	if err := uow.UserRepository().UpdateAdWatch(ctx, userID, watchedToday, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.AdWatchResult{
		TokensEarned:    cfg.TokensPerAd,
		AdsWatchedToday: watchedToday,
		MaxAdsPerDay:    cfg.MaxAdsPerDay,
		NewPTBalance:    user.PTBalance,
	}, nil
}

// RunMonthlyReset restores every due user's PT balance to the season
// floor and zeroes their season stats. Each user resets in their own
// transaction so one failure doesn't roll back the whole sweep.
func (s *rewardsService) RunMonthlyReset(ctx context.Context) (*models.MonthlyResetResult, error) {
	cfg := config.Get()

	listUow := s.uowFactory.Create()
	if err := listUow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	candidates, err := listUow.UserRepository().GetMonthlyResetCandidates(ctx)
	listUow.Rollback()
	if err != nil {
		return nil, err
	}

	result := &models.MonthlyResetResult{}
	for _, candidate := range candidates {
		if err := s.resetOneUser(ctx, candidate.ID, cfg); err != nil {
			log.WithError(err).WithField("userID", candidate.ID).Warn("Monthly reset failed for user")
			continue
		}
		result.UsersReset++
	}

	log.WithField("usersReset", result.UsersReset).Info("Monthly reset completed")

	return result, nil
}

func (s *rewardsService) resetOneUser(ctx context.Context, userID int64, cfg *config.Config) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user %d not found", userID)
	}

	resetPT := cfg.MonthlyResetPT
	if user.IsPremium {
		resetPT = cfg.MonthlyResetPTPremium
	}

	if err := uow.UserRepository().ApplyMonthlyReset(ctx, userID, resetPT); err != nil {
		return err
	}

	// The reset sets the balance rather than adding to it, so the
	// ledger entry carries the signed difference
	change := resetPT - user.PTBalance
	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeMonthlyReset,
		Amount:      change,
		Currency:    models.CurrencyPT,
		Description: "monthly reset",
	}
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return fmt.Errorf("failed to record monthly reset: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		Currency:        models.CurrencyPT,
		OldBalance:      user.PTBalance,
		NewBalance:      resetPT,
		TransactionType: models.TransactionTypeMonthlyReset,
		ChangeAmount:    change,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
