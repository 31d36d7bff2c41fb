package service

import (
	"context"
	"fmt"

	"predictarena/apperrors"
	"predictarena/models"
)

type sweepstakesService struct {
	uowFactory UnitOfWorkFactory
	isAdmin    func(userID int64) bool
}

// NewSweepstakesService creates a new sweepstakes service
func NewSweepstakesService(uowFactory UnitOfWorkFactory, isAdmin func(userID int64) bool) SweepstakesService {
	return &sweepstakesService{
		uowFactory: uowFactory,
		isAdmin:    isAdmin,
	}
}

func (s *sweepstakesService) CreateSweepstakes(ctx context.Context, adminID int64, sw *models.Sweepstakes) (*models.Sweepstakes, error) {
	if !s.isAdmin(adminID) {
		return nil, apperrors.PermissionDenied("user %d may not create sweepstakes", adminID)
	}
	if sw.Title == "" {
		return nil, apperrors.InvalidArgument("title is required")
	}
	if sw.EntryCost < 0 {
		return nil, apperrors.InvalidArgument("entry cost cannot be negative")
	}
	if sw.EntryCurrency != models.CurrencyET && sw.EntryCurrency != models.CurrencyPT {
		return nil, apperrors.InvalidArgument("entry currency must be ET or PT")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SweepstakesRepository().Create(ctx, sw); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return sw, nil
}

func (s *sweepstakesService) CloseSweepstakes(ctx context.Context, adminID, sweepstakesID int64) error {
	if !s.isAdmin(adminID) {
		return apperrors.PermissionDenied("user %d may not close sweepstakes", adminID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	updated, err := uow.SweepstakesRepository().SetOpen(ctx, sweepstakesID, false)
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.NotFound("sweepstakes %d not found", sweepstakesID)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *sweepstakesService) Enter(ctx context.Context, userID, sweepstakesID int64) (*models.SweepstakesEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sw, err := uow.SweepstakesRepository().GetByID(ctx, sweepstakesID)
	if err != nil {
		return nil, err
	}
	if sw == nil {
		return nil, apperrors.NotFound("sweepstakes %d not found", sweepstakesID)
	}
	if !sw.IsOpen {
		return nil, apperrors.FailedPrecondition("sweepstakes %d is closed", sweepstakesID)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	// Entries are tickets, not votes: a user may buy any number
	if sw.EntryCost > 0 {
		description := fmt.Sprintf("sweepstakes %d entry", sweepstakesID)
		if err := Debit(ctx, uow, user, sw.EntryCurrency, sw.EntryCost, models.TransactionTypeSweepstakes, description); err != nil {
			return nil, err
		}
	}

	entry := &models.SweepstakesEntry{
		SweepstakesID: sweepstakesID,
		UserID:        userID,
	}
	if err := uow.SweepstakesRepository().CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

func (s *sweepstakesService) ListOpen(ctx context.Context) ([]*models.Sweepstakes, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	list, err := uow.SweepstakesRepository().ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return list, nil
}

func (s *sweepstakesService) GetUserEntries(ctx context.Context, userID int64, limit int) ([]*models.SweepstakesEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.SweepstakesRepository().GetEntriesByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}
