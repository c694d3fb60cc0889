package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositService interface {
	// Request records a claim that an external transfer was made. The
	// UTR number is unique, so a repeated claim fails instead of
	// queueing a second credit.
	Request(ctx context.Context, userID int, amount decimal.Decimal, utrNumber string) (*models.Deposit, error)
	// Verify approves (crediting the wallet in the same unit as the
	// status change) or rejects a pending deposit.
	Verify(ctx context.Context, depositID uuid.UUID, approve bool, adminNote *string) error
	ListPending(ctx context.Context) ([]*models.Deposit, error)
}

type depositService struct {
	db          *sql.DB
	depositRepo repositories.DepositRepository
	profileRepo repositories.ProfileRepository
	wallet      WalletService
	logger      *slog.Logger
}

func NewDepositService(
	db *sql.DB,
	depositRepo repositories.DepositRepository,
	profileRepo repositories.ProfileRepository,
	wallet WalletService,
	logger *slog.Logger,
) DepositService {
	return &depositService{
		db:          db,
		depositRepo: depositRepo,
		profileRepo: profileRepo,
		wallet:      wallet,
		logger:      logger,
	}
}

func (s *depositService) Request(ctx context.Context, userID int, amount decimal.Decimal, utrNumber string) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	utrNumber = strings.TrimSpace(utrNumber)
	if utrNumber == "" {
		return nil, fmt.Errorf("%w: transaction reference is required", ErrInvalidInput)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	deposit := &models.Deposit{
		ID:        uuid.New(),
		ProfileID: profile.ID,
		Amount:    amount,
		UTRNumber: utrNumber,
		Status:    models.DepositPending,
	}
	if err := s.depositRepo.Create(ctx, nil, deposit); err != nil {
		return nil, err
	}

	s.logger.Info("deposit claimed", "deposit_id", deposit.ID, "profile_id", profile.ID, "amount", amount)
	return deposit, nil
}

func (s *depositService) Verify(ctx context.Context, depositID uuid.UUID, approve bool, adminNote *string) error {
	if !approve {
		return s.depositRepo.Transition(ctx, nil, depositID, models.DepositRejected, adminNote)
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		deposit, err := s.depositRepo.GetByID(ctx, tx, depositID)
		if err != nil {
			return err
		}

		// Guarded pending -> approved; a raced second approval fails
		// here before the credit.
		if err := s.depositRepo.Transition(ctx, tx, depositID, models.DepositApproved, adminNote); err != nil {
			return err
		}

		note := fmt.Sprintf("Deposit %s (UTR %s)", depositID, deposit.UTRNumber)
		if _, err := s.wallet.Credit(ctx, tx, deposit.ProfileID, deposit.Amount, note); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("deposit approved", "deposit_id", depositID)
	return nil
}

func (s *depositService) ListPending(ctx context.Context) ([]*models.Deposit, error) {
	return s.depositRepo.ListPending(ctx)
}
