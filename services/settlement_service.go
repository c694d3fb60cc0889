package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResultEntry is one declared placement.
type ResultEntry struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Rank          int       `json:"rank"`
}

type SettlementService interface {
	// DeclareResults records placements and computes prize amounts from
	// the tournament's prize table, then completes the room. No money
	// moves here; money moves only at approval.
	DeclareResults(ctx context.Context, roomID uuid.UUID, entries []ResultEntry) error
	// ApprovePayouts credits every pending result of the room and
	// returns how many were newly paid. Re-approving pays nothing.
	ApprovePayouts(ctx context.Context, roomID uuid.UUID, approvedBy int) (int, error)
	// AddSingleWinner is the manual fast path: one result created (or
	// corrected), credited and stamped paid in a single unit.
	AddSingleWinner(ctx context.Context, roomID, participantID uuid.UUID, rank int, overrideAmount *decimal.Decimal, approvedBy int) (*models.RoomResult, error)
	PendingPayouts(ctx context.Context) ([]*models.RoomResult, error)
	RoomResults(ctx context.Context, roomID uuid.UUID) ([]*models.RoomResult, error)
	TotalPrizePool(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error)
}

type settlementService struct {
	db              *sql.DB
	roomRepo        repositories.RoomRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	resultRepo      repositories.ResultRepository
	prizeRepo       repositories.PrizeRepository
	profileRepo     repositories.ProfileRepository
	wallet          WalletService
	notifier        RoomNotifier
	logger          *slog.Logger
}

func NewSettlementService(
	db *sql.DB,
	roomRepo repositories.RoomRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	resultRepo repositories.ResultRepository,
	prizeRepo repositories.PrizeRepository,
	profileRepo repositories.ProfileRepository,
	wallet WalletService,
	notifier RoomNotifier,
	logger *slog.Logger,
) SettlementService {
	return &settlementService{
		db:              db,
		roomRepo:        roomRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		resultRepo:      resultRepo,
		prizeRepo:       prizeRepo,
		profileRepo:     profileRepo,
		wallet:          wallet,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *settlementService) DeclareResults(ctx context.Context, roomID uuid.UUID, entries []ResultEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no results to declare", ErrInvalidInput)
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if !room.CanTransitionTo(models.RoomStatusCompleted) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, room.Status, models.RoomStatusCompleted)
		}

		for _, entry := range entries {
			if entry.Rank < 1 {
				return fmt.Errorf("%w: rank must be positive", ErrInvalidInput)
			}

			participant, err := s.participantRepo.GetByID(ctx, tx, entry.ParticipantID)
			if err != nil {
				return err
			}
			if participant.RoomID != roomID {
				return fmt.Errorf("%w: participant %s is not in room %s", ErrInvalidInput, entry.ParticipantID, roomID)
			}

			// A rank missing from the prize table means no prize, not
			// an error.
			prize := decimal.Zero
			dist, err := s.prizeRepo.GetByTournamentAndRank(ctx, tx, room.TournamentID, entry.Rank)
			if err == nil {
				prize = dist.PrizeAmount
			} else if !errors.Is(err, repositories.ErrPrizeNotFound) {
				return err
			}

			result := &models.RoomResult{
				ID:            uuid.New(),
				RoomID:        roomID,
				ParticipantID: entry.ParticipantID,
				Rank:          entry.Rank,
				PrizeAmount:   prize,
				PayoutStatus:  models.PayoutPending,
			}
			if err := s.resultRepo.Upsert(ctx, tx, result); err != nil {
				return err
			}
		}

		return s.roomRepo.UpdateStatus(ctx, tx, roomID, models.RoomStatusCompleted)
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.RoomStatusChanged(roomID, models.RoomStatusCompleted)
	}
	s.logger.Info("results declared", "room_id", roomID, "entries", len(entries))
	return nil
}

func (s *settlementService) ApprovePayouts(ctx context.Context, roomID uuid.UUID, approvedBy int) (int, error) {
	var paidCount int

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		pending, err := s.resultRepo.ListPendingByRoomForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, result := range pending {
			if err := s.payResult(ctx, tx, result, approvedBy, now); err != nil {
				return err
			}
			paidCount++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if paidCount > 0 && s.notifier != nil {
		s.notifier.PayoutsApproved(roomID, paidCount)
	}
	s.logger.Info("payouts approved", "room_id", roomID, "paid", paidCount, "approved_by", approvedBy)
	return paidCount, nil
}

// payResult credits the winner and stamps the result paid inside the
// caller's transaction. Zero-prize results are stamped without a
// credit; the ledger only records positive amounts.
func (s *settlementService) payResult(ctx context.Context, tx *sql.Tx, result *models.RoomResult, approvedBy int, now time.Time) error {
	if result.PrizeAmount.IsPositive() {
		participant, err := s.participantRepo.GetByID(ctx, tx, result.ParticipantID)
		if err != nil {
			return err
		}
		profile, err := s.profileRepo.GetByUserID(ctx, tx, participant.UserID)
		if err != nil {
			return err
		}
		note := fmt.Sprintf("Prize payout for result %s (rank %d)", result.ID, result.Rank)
		if _, err := s.wallet.Credit(ctx, tx, profile.ID, result.PrizeAmount, note); err != nil {
			return err
		}
	}
	return s.resultRepo.MarkPaid(ctx, tx, result.ID, approvedBy, now)
}

func (s *settlementService) AddSingleWinner(ctx context.Context, roomID, participantID uuid.UUID, rank int, overrideAmount *decimal.Decimal, approvedBy int) (*models.RoomResult, error) {
	if rank < 1 {
		return nil, fmt.Errorf("%w: rank must be positive", ErrInvalidInput)
	}
	if overrideAmount != nil && overrideAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var result *models.RoomResult

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}

		participant, err := s.participantRepo.GetByID(ctx, tx, participantID)
		if err != nil {
			return err
		}
		if participant.RoomID != roomID {
			return fmt.Errorf("%w: participant %s is not in room %s", ErrInvalidInput, participantID, roomID)
		}

		prize := decimal.Zero
		if overrideAmount != nil {
			prize = *overrideAmount
		} else {
			dist, err := s.prizeRepo.GetByTournamentAndRank(ctx, tx, room.TournamentID, rank)
			if err == nil {
				prize = dist.PrizeAmount
			} else if !errors.Is(err, repositories.ErrPrizeNotFound) {
				return err
			}
		}

		now := time.Now()
		result = &models.RoomResult{
			ID:            uuid.New(),
			RoomID:        roomID,
			ParticipantID: participantID,
			Rank:          rank,
			PrizeAmount:   prize,
			PayoutStatus:  models.PayoutPaid,
			ApprovedBy:    &approvedBy,
			ApprovedAt:    &now,
		}
		// The upsert refuses to touch an already-paid row, so the
		// credit below can never apply twice for one result.
		if err := s.resultRepo.Upsert(ctx, tx, result); err != nil {
			return err
		}

		if prize.IsPositive() {
			profile, err := s.profileRepo.GetByUserID(ctx, tx, participant.UserID)
			if err != nil {
				return err
			}
			note := fmt.Sprintf("Prize payout for result %s (rank %d)", result.ID, rank)
			if _, err := s.wallet.Credit(ctx, tx, profile.ID, prize, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PayoutsApproved(roomID, 1)
	}
	s.logger.Info("single winner added", "room_id", roomID, "participant_id", participantID, "approved_by", approvedBy)
	return result, nil
}

func (s *settlementService) PendingPayouts(ctx context.Context) ([]*models.RoomResult, error) {
	return s.resultRepo.ListPending(ctx)
}

func (s *settlementService) RoomResults(ctx context.Context, roomID uuid.UUID) ([]*models.RoomResult, error) {
	return s.resultRepo.ListByRoom(ctx, nil, roomID)
}

// TotalPrizePool is the aggregate the paid participants actually
// contributed, which holds under both payment policies.
func (s *settlementService) TotalPrizePool(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error) {
	participants, err := s.participantRepo.ListByRoom(ctx, nil, roomID)
	if err != nil {
		return decimal.Zero, err
	}
	pool := decimal.Zero
	for _, p := range participants {
		if p.Paid {
			pool = pool.Add(p.PaymentShare)
		}
	}
	return pool, nil
}
