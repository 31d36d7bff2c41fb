package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"predictarena/apperrors"
	"predictarena/config"
	"predictarena/events"
	"predictarena/models"
)

const (
	challengeCodeLength   = 8
	challengeCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	challengeCodeRetries  = 5

	// 1 ET per cent, plus a 10 PT bonus per dollar
	etPerCent        = 1
	ptBonusPerDollar = 10

	premiumUpgradeBonusPT = 200
)

type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) Register(ctx context.Context, email, username string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidArgument("a valid email is required")
	}
	if username == "" {
		return nil, apperrors.InvalidArgument("username is required")
	}

	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().Create(ctx, email, username, cfg.StartingETBalance, cfg.StartingPTBalance)
	if err != nil {
		return nil, err
	}

	// Starting balances get their own ledger entries so the ledger
	// replays to the current balance from day one
	for _, grant := range []struct {
		currency models.Currency
		amount   int64
	}{
		{models.CurrencyET, cfg.StartingETBalance},
		{models.CurrencyPT, cfg.StartingPTBalance},
	} {
		if grant.amount == 0 {
			continue
		}
		txn := &models.Transaction{
			UserID:      user.ID,
			Type:        models.TransactionTypeInitial,
			Amount:      grant.amount,
			Currency:    grant.currency,
			Description: "starting balance",
		}
		if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:    user.ID,
		Username:  user.Username,
		InitialET: user.ETBalance,
		InitialPT: user.PTBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

func (s *userService) GenerateChallengeCode(ctx context.Context, userID int64) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.NotFound("user %d not found", userID)
	}

	// Idempotent: a user keeps the code they already have
	if user.ChallengeCode != nil {
		if err := uow.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit transaction: %w", err)
		}
		return *user.ChallengeCode, nil
	}

	// Pre-check candidates for collisions; a violated statement would
	// abort the whole transaction, so the unique index is only the
	// backstop for a concurrent race
	var code string
	for attempt := 0; ; attempt++ {
		code = randomChallengeCode()
		taken, err := uow.UserRepository().GetByChallengeCode(ctx, code)
		if err != nil {
			return "", err
		}
		if taken == nil {
			break
		}
		if attempt >= challengeCodeRetries {
			return "", apperrors.Internal("could not generate a unique challenge code")
		}
	}

	if err := uow.UserRepository().SetChallengeCode(ctx, userID, code); err != nil {
		return "", err
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return code, nil
}

func randomChallengeCode() string {
	b := make([]byte, challengeCodeLength)
	for i := range b {
		b[i] = challengeCodeAlphabet[rand.Intn(len(challengeCodeAlphabet))]
	}
	return string(b)
}

func (s *userService) PurchaseTokens(ctx context.Context, userID int64, usdCents int64) (*models.PurchaseResult, error) {
	if usdCents <= 0 {
		return nil, apperrors.InvalidArgument("purchase amount must be positive")
	}
	if usdCents%100 != 0 {
		return nil, apperrors.InvalidArgument("purchase amount must be a whole dollar amount")
	}

	etAmount := usdCents * etPerCent
	ptBonus := usdCents / 100 * ptBonusPerDollar

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	description := fmt.Sprintf("token purchase ($%d.%02d)", usdCents/100, usdCents%100)
	if err := Credit(ctx, uow, user, models.CurrencyET, etAmount, models.TransactionTypePurchase, description); err != nil {
		return nil, err
	}
	if err := Credit(ctx, uow, user, models.CurrencyPT, ptBonus, models.TransactionTypeBonus, "purchase bonus"); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PurchaseResult{
		ETAdded:      etAmount,
		PTAdded:      ptBonus,
		NewETBalance: user.ETBalance,
		NewPTBalance: user.PTBalance,
	}, nil
}

func (s *userService) UpgradeToPremium(ctx context.Context, userID int64) error {
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
	if user.IsPremium {
		return apperrors.FailedPrecondition("user is already premium")
	}

	// Payment happens out of band; in-app the upgrade only flips the
	// flag and credits the welcome bonus
	if err := uow.UserRepository().SetPremium(ctx, userID, true); err != nil {
		return err
	}

	if err := Credit(ctx, uow, user, models.CurrencyPT, premiumUpgradeBonusPT, models.TransactionTypePremiumUpgrade, "premium upgrade bonus"); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *userService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	txns, err := uow.TransactionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txns, nil
}

func (s *userService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.UserRepository().GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}
