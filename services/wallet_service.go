package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletService owns the only two operations that change a balance.
// Credit and Debit take the caller's executor so a balance delta and
// its ledger entry commit (or roll back) together with whatever state
// change motivated them.
type WalletService interface {
	Credit(ctx context.Context, exec repositories.SQLExecutor, profileID int, amount decimal.Decimal, note string) (decimal.Decimal, error)
	Debit(ctx context.Context, exec repositories.SQLExecutor, profileID int, amount decimal.Decimal, note string) (decimal.Decimal, error)
	Balance(ctx context.Context, userID int) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID int, limit, offset int) ([]*models.WalletTransaction, error)
}

type walletService struct {
	profileRepo     repositories.ProfileRepository
	transactionRepo repositories.TransactionRepository
}

func NewWalletService(
	profileRepo repositories.ProfileRepository,
	transactionRepo repositories.TransactionRepository,
) WalletService {
	return &walletService{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *walletService) Credit(ctx context.Context, exec repositories.SQLExecutor, profileID int, amount decimal.Decimal, note string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	balance, err := s.profileRepo.AddToBalance(ctx, exec, profileID, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit profile %d: %w", profileID, err)
	}

	entry := &models.WalletTransaction{
		ID:        uuid.New(),
		ProfileID: profileID,
		Type:      models.TransactionCredit,
		Amount:    amount,
		Note:      note,
	}
	if err := s.transactionRepo.Create(ctx, exec, entry); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record credit for profile %d: %w", profileID, err)
	}
	return balance, nil
}

func (s *walletService) Debit(ctx context.Context, exec repositories.SQLExecutor, profileID int, amount decimal.Decimal, note string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	balance, err := s.profileRepo.AddToBalance(ctx, exec, profileID, amount.Neg())
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			available, balErr := s.profileRepo.GetBalance(ctx, exec, profileID)
			if balErr != nil {
				return decimal.Zero, balErr
			}
			return decimal.Zero, &InsufficientFundsError{Required: amount, Available: available}
		}
		return decimal.Zero, fmt.Errorf("failed to debit profile %d: %w", profileID, err)
	}

	entry := &models.WalletTransaction{
		ID:        uuid.New(),
		ProfileID: profileID,
		Type:      models.TransactionDebit,
		Amount:    amount,
		Note:      note,
	}
	if err := s.transactionRepo.Create(ctx, exec, entry); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record debit for profile %d: %w", profileID, err)
	}
	return balance, nil
}

func (s *walletService) Balance(ctx context.Context, userID int) (decimal.Decimal, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return profile.Balance, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID int, limit, offset int) ([]*models.WalletTransaction, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByProfile(ctx, profile.ID, limit, offset)
}
