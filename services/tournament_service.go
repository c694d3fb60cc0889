package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTournamentInput struct {
	Name            string             `json:"name"`
	Game            models.GameType    `json:"game"`
	EntryFee        decimal.Decimal    `json:"entry_fee"`
	TeamMode        models.TeamMode    `json:"team_mode"`
	MaxParticipants int                `json:"max_participants"`
	PaymentType     models.PaymentType `json:"payment_type"`
}

type PrizeInput struct {
	Rank        int             `json:"rank"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
}

type TournamentService interface {
	// Create persists the tournament and its room in one unit; a
	// tournament is never observable without its room.
	Create(ctx context.Context, createdBy int, input CreateTournamentInput) (*models.Tournament, *models.Room, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	SetActive(ctx context.Context, id int, active bool) error
	SetPrizeDistribution(ctx context.Context, tournamentID int, prizes []PrizeInput) ([]*models.PrizeDistribution, error)
	GetPrizeDistribution(ctx context.Context, tournamentID int) ([]*models.PrizeDistribution, error)
	Participants(ctx context.Context, tournamentID int) ([]*models.RoomParticipant, error)
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	roomRepo        repositories.RoomRepository
	prizeRepo       repositories.PrizeRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	roomRepo repositories.RoomRepository,
	prizeRepo repositories.PrizeRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		roomRepo:        roomRepo,
		prizeRepo:       prizeRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, createdBy int, input CreateTournamentInput) (*models.Tournament, *models.Room, error) {
	if input.Name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	switch input.Game {
	case models.GameFIFA, models.GameBGMI, models.GameFreeFire:
	default:
		return nil, nil, fmt.Errorf("%w: unknown game %q", ErrInvalidInput, input.Game)
	}
	switch input.TeamMode {
	case models.TeamModeSolo, models.TeamModeDuo, models.TeamModeSquad:
	default:
		return nil, nil, fmt.Errorf("%w: unknown team mode %q", ErrInvalidInput, input.TeamMode)
	}
	if input.EntryFee.IsNegative() {
		return nil, nil, fmt.Errorf("%w: entry fee cannot be negative", ErrInvalidInput)
	}
	if input.MaxParticipants < 1 {
		return nil, nil, fmt.Errorf("%w: max participants must be at least 1", ErrInvalidInput)
	}
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentLeaderPaysAll
	}
	if paymentType != models.PaymentLeaderPaysAll && paymentType != models.PaymentSplitEqually {
		return nil, nil, fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, paymentType)
	}

	tournament := &models.Tournament{
		Name:            input.Name,
		Game:            input.Game,
		EntryFee:        input.EntryFee,
		TeamMode:        input.TeamMode,
		MaxParticipants: input.MaxParticipants,
		CreatedBy:       &createdBy,
		IsActive:        true,
	}
	room := &models.Room{
		ID:          uuid.New(),
		OwnerID:     &createdBy,
		Status:      models.RoomStatusOpen,
		PaymentType: paymentType,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
			return err
		}
		room.TournamentID = tournament.ID
		return s.roomRepo.Create(ctx, tx, room)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("tournament created", "tournament_id", tournament.ID, "name", tournament.Name, "room_id", room.ID)
	return tournament, room, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	return s.tournamentRepo.GetByID(ctx, nil, id)
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) SetActive(ctx context.Context, id int, active bool) error {
	return s.tournamentRepo.SetActive(ctx, id, active)
}

func (s *tournamentService) SetPrizeDistribution(ctx context.Context, tournamentID int, prizes []PrizeInput) ([]*models.PrizeDistribution, error) {
	if len(prizes) == 0 {
		return nil, fmt.Errorf("%w: at least one prize rank is required", ErrInvalidInput)
	}
	seen := make(map[int]struct{}, len(prizes))
	distributions := make([]*models.PrizeDistribution, 0, len(prizes))
	for _, p := range prizes {
		if p.Rank < 1 {
			return nil, fmt.Errorf("%w: rank must be positive", ErrInvalidInput)
		}
		if p.PrizeAmount.IsNegative() {
			return nil, fmt.Errorf("%w: prize amount cannot be negative", ErrInvalidInput)
		}
		if _, dup := seen[p.Rank]; dup {
			return nil, fmt.Errorf("%w: duplicate rank %d", ErrInvalidInput, p.Rank)
		}
		seen[p.Rank] = struct{}{}
		distributions = append(distributions, &models.PrizeDistribution{
			ID:          uuid.New(),
			Rank:        p.Rank,
			PrizeAmount: p.PrizeAmount,
		})
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID); err != nil {
			return err
		}
		return s.prizeRepo.ReplaceForTournament(ctx, tx, tournamentID, distributions)
	})
	if err != nil {
		return nil, err
	}
	return distributions, nil
}

func (s *tournamentService) GetPrizeDistribution(ctx context.Context, tournamentID int) ([]*models.PrizeDistribution, error) {
	return s.prizeRepo.ListByTournament(ctx, tournamentID)
}

func (s *tournamentService) Participants(ctx context.Context, tournamentID int) ([]*models.RoomParticipant, error) {
	room, err := s.roomRepo.GetByTournamentID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return []*models.RoomParticipant{}, nil
		}
		return nil, err
	}
	return s.participantRepo.ListByRoom(ctx, nil, room.ID)
}
