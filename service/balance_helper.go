package service

import (
	"context"
	"fmt"

	"predictarena/events"
	"predictarena/models"
)

// Credit adds amount to one of a user's balances, appends the matching
// ledger entry, and publishes the balance change event. This and Debit
// are the only entry points for balance mutations, so every change is
// paired with exactly one ledger row.
func Credit(ctx context.Context, uow UnitOfWork, user *models.User, currency models.Currency, amount int64, txType models.TransactionType, description string) error {
	if err := uow.UserRepository().AddBalance(ctx, user.ID, currency, amount); err != nil {
		return fmt.Errorf("failed to add balance: %w", err)
	}

	return recordChange(ctx, uow, user, currency, amount, txType, description)
}

// Debit removes amount from one of a user's balances, appends the
// matching ledger entry as a negative amount, and publishes the balance
// change event. The amount argument is positive.
func Debit(ctx context.Context, uow UnitOfWork, user *models.User, currency models.Currency, amount int64, txType models.TransactionType, description string) error {
	if err := uow.UserRepository().DeductBalance(ctx, user.ID, currency, amount); err != nil {
		return fmt.Errorf("failed to deduct balance: %w", err)
	}

	return recordChange(ctx, uow, user, currency, -amount, txType, description)
}

// recordChange appends the ledger entry and publishes the event,
// keeping the in-memory user snapshot current so a sequence of
// credits and debits within one transaction stays consistent.
func recordChange(ctx context.Context, uow UnitOfWork, user *models.User, currency models.Currency, change int64, txType models.TransactionType, description string) error {
	oldBalance := user.Balance(currency)
	newBalance := oldBalance + change

	txn := &models.Transaction{
		UserID:      user.ID,
		Type:        txType,
		Amount:      change,
		Currency:    currency,
		Description: description,
	}
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	switch currency {
	case models.CurrencyET:
		user.ETBalance = newBalance
	case models.CurrencyPT:
		user.PTBalance = newBalance
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          user.ID,
		Currency:        currency,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		TransactionType: txType,
		ChangeAmount:    change,
	})

	return nil
}
