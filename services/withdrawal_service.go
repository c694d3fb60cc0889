package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalService interface {
	// Request creates a pending withdrawal. The balance check here is
	// advisory only; nothing is reserved until approval.
	Request(ctx context.Context, userID int, amount decimal.Decimal, upiID, bankDetails *string) (*models.Withdrawal, error)
	// Approve re-checks the balance authoritatively and debits it in
	// the same unit as the status change. Insufficient funds at this
	// point fails the whole operation, leaving the withdrawal pending.
	Approve(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) error
	Reject(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) error
	MarkPaid(ctx context.Context, withdrawalID uuid.UUID, payoutID string) error
	ListMine(ctx context.Context, userID int) ([]*models.Withdrawal, error)
	ListAll(ctx context.Context) ([]*models.Withdrawal, error)
}

type withdrawalService struct {
	db             *sql.DB
	withdrawalRepo repositories.WithdrawalRepository
	profileRepo    repositories.ProfileRepository
	wallet         WalletService
	logger         *slog.Logger
}

func NewWithdrawalService(
	db *sql.DB,
	withdrawalRepo repositories.WithdrawalRepository,
	profileRepo repositories.ProfileRepository,
	wallet WalletService,
	logger *slog.Logger,
) WithdrawalService {
	return &withdrawalService{
		db:             db,
		withdrawalRepo: withdrawalRepo,
		profileRepo:    profileRepo,
		wallet:         wallet,
		logger:         logger,
	}
}

func (s *withdrawalService) Request(ctx context.Context, userID int, amount decimal.Decimal, upiID, bankDetails *string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if (upiID == nil || *upiID == "") && (bankDetails == nil || *bankDetails == "") {
		return nil, fmt.Errorf("%w: a payout destination is required", ErrInvalidInput)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	// Advisory only: the balance can change before approval, and the
	// authoritative check happens there. An over-balance request is
	// recorded, not rejected.
	if amount.GreaterThan(profile.Balance) {
		s.logger.Warn("withdrawal requested above balance",
			"profile_id", profile.ID, "amount", amount, "balance", profile.Balance)
	}

	withdrawal := &models.Withdrawal{
		ID:          uuid.New(),
		ProfileID:   profile.ID,
		Amount:      amount,
		Status:      models.WithdrawalPending,
		UPIID:       upiID,
		BankDetails: bankDetails,
	}
	if err := s.withdrawalRepo.Create(ctx, nil, withdrawal); err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal requested", "withdrawal_id", withdrawal.ID, "profile_id", profile.ID, "amount", amount)
	return withdrawal, nil
}

func (s *withdrawalService) Approve(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) error {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		withdrawal, err := s.withdrawalRepo.GetByID(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status != models.WithdrawalPending {
			return repositories.ErrWithdrawalProcessed
		}

		// The status guard in Transition makes a raced second approval
		// fail before any money moves.
		if err := s.withdrawalRepo.Transition(ctx, tx, withdrawalID,
			models.WithdrawalPending, models.WithdrawalApproved, adminNote, nil); err != nil {
			return err
		}

		note := fmt.Sprintf("Withdrawal %s approved", withdrawalID)
		if _, err := s.wallet.Debit(ctx, tx, withdrawal.ProfileID, withdrawal.Amount, note); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("withdrawal approved", "withdrawal_id", withdrawalID)
	return nil
}

func (s *withdrawalService) Reject(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) error {
	// No funds were reserved, so rejection is a pure status change.
	return s.withdrawalRepo.Transition(ctx, nil, withdrawalID,
		models.WithdrawalPending, models.WithdrawalRejected, adminNote, nil)
}

func (s *withdrawalService) MarkPaid(ctx context.Context, withdrawalID uuid.UUID, payoutID string) error {
	if payoutID == "" {
		return fmt.Errorf("%w: payout reference is required", ErrInvalidInput)
	}
	return s.withdrawalRepo.Transition(ctx, nil, withdrawalID,
		models.WithdrawalApproved, models.WithdrawalPaid, nil, &payoutID)
}

func (s *withdrawalService) ListMine(ctx context.Context, userID int) ([]*models.Withdrawal, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return s.withdrawalRepo.ListByProfile(ctx, profile.ID)
}

func (s *withdrawalService) ListAll(ctx context.Context) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.ListAll(ctx)
}
