package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/payments"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomDetail struct {
	Room         *models.Room              `json:"room"`
	Tournament   *models.Tournament        `json:"tournament"`
	Participants []*models.RoomParticipant `json:"participants"`
	PrizePool    decimal.Decimal           `json:"prize_pool"`
}

type RoomService interface {
	CreateRoom(ctx context.Context, tournamentID int, ownerID int, paymentType models.PaymentType) (*models.Room, error)
	JoinSolo(ctx context.Context, roomID uuid.UUID, userID int) (*models.RoomParticipant, error)
	CreateTeam(ctx context.Context, roomID uuid.UUID, leaderUserID int, inviteeGameIDs []string) (*models.RoomParticipant, []*models.TeamInvitation, error)
	AcceptInvitation(ctx context.Context, invitationID uuid.UUID, userID int) (*models.RoomParticipant, error)
	RejectInvitation(ctx context.Context, invitationID uuid.UUID, userID int) error
	MyInvitations(ctx context.Context, userID int) ([]*models.TeamInvitation, error)
	MyRooms(ctx context.Context, userID int) ([]*RoomDetail, error)
	RoomDetail(ctx context.Context, roomID uuid.UUID) (*RoomDetail, error)
	CancelRoom(ctx context.Context, roomID uuid.UUID) error
	StartRoom(ctx context.Context, roomID uuid.UUID) error

	// Gateway-paid entry: the order is created before any transaction;
	// the signature check happens strictly before the transaction that
	// marks the participant paid.
	CreateEntryOrder(ctx context.Context, roomID uuid.UUID, userID int) (string, error)
	VerifyGatewayPayment(ctx context.Context, orderID, paymentID, signature string) (*models.RoomParticipant, error)
}

type roomService struct {
	db              *sql.DB
	roomRepo        repositories.RoomRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	invitationRepo  repositories.InvitationRepository
	profileRepo     repositories.ProfileRepository
	wallet          WalletService
	gateway         payments.Gateway
	notifier        RoomNotifier
	logger          *slog.Logger
}

func NewRoomService(
	db *sql.DB,
	roomRepo repositories.RoomRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	invitationRepo repositories.InvitationRepository,
	profileRepo repositories.ProfileRepository,
	wallet WalletService,
	gateway payments.Gateway,
	notifier RoomNotifier,
	logger *slog.Logger,
) RoomService {
	return &roomService{
		db:              db,
		roomRepo:        roomRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		invitationRepo:  invitationRepo,
		profileRepo:     profileRepo,
		wallet:          wallet,
		gateway:         gateway,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, tournamentID int, ownerID int, paymentType models.PaymentType) (*models.Room, error) {
	if paymentType == "" {
		paymentType = models.PaymentLeaderPaysAll
	}
	if paymentType != models.PaymentLeaderPaysAll && paymentType != models.PaymentSplitEqually {
		return nil, fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, paymentType)
	}

	if existing, err := s.roomRepo.GetByTournamentID(ctx, nil, tournamentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repositories.ErrRoomNotFound) {
		return nil, err
	}

	room := &models.Room{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		OwnerID:      &ownerID,
		Status:       models.RoomStatusOpen,
		PaymentType:  paymentType,
	}
	if err := s.roomRepo.Create(ctx, nil, room); err != nil {
		// Lost a race to another creator: the existing room wins.
		if errors.Is(err, repositories.ErrRoomAlreadyExists) {
			return s.roomRepo.GetByTournamentID(ctx, nil, tournamentID)
		}
		return nil, err
	}
	return room, nil
}

// joinChecks are the preconditions shared by every join path. They run
// after the room row lock is taken, so the counts they read cannot be
// invalidated by a concurrent join on the same room.
func (s *roomService) joinChecks(ctx context.Context, tx *sql.Tx, room *models.Room, userID int, seats int) (*models.Tournament, *models.Profile, int, error) {
	if room.Status != models.RoomStatusOpen {
		return nil, nil, 0, ErrRoomNotOpen
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tx, room.TournamentID)
	if err != nil {
		return nil, nil, 0, err
	}
	if !tournament.IsActive {
		return nil, nil, 0, ErrTournamentInactive
	}
	if tournament.RegistrationDeadline != nil && time.Now().After(*tournament.RegistrationDeadline) {
		return nil, nil, 0, ErrRegistrationClosed
	}

	profile, err := s.profileRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return nil, nil, 0, err
	}
	if !profile.GameIDVerified {
		return nil, nil, 0, ErrGameIDNotVerified
	}

	if _, err := s.participantRepo.GetByRoomAndUser(ctx, tx, room.ID, userID); err == nil {
		return nil, nil, 0, ErrAlreadyJoined
	} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, nil, 0, err
	}

	total, err := s.participantRepo.CountByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	if total+seats > tournament.MaxParticipants {
		return nil, nil, 0, ErrTournamentFull
	}
	return tournament, profile, total, nil
}

func (s *roomService) JoinSolo(ctx context.Context, roomID uuid.UUID, userID int) (*models.RoomParticipant, error) {
	var participant *models.RoomParticipant
	var becameFull bool

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}

		tournament, profile, total, err := s.joinChecks(ctx, tx, room, userID, 1)
		if err != nil {
			return err
		}

		share := tournament.EntryShare()
		note := fmt.Sprintf("Entry fee for %s", tournament.Name)
		if _, err := s.wallet.Debit(ctx, tx, profile.ID, share, note); err != nil {
			return err
		}

		participant = &models.RoomParticipant{
			ID:           uuid.New(),
			RoomID:       room.ID,
			UserID:       userID,
			Paid:         true,
			IsTeamLeader: true,
			PaymentShare: share,
		}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrAlreadyJoined
			}
			return err
		}

		if total+1 >= tournament.MaxParticipants {
			if err := s.roomRepo.UpdateStatus(ctx, tx, room.ID, models.RoomStatusFull); err != nil {
				return err
			}
			becameFull = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if becameFull && s.notifier != nil {
		s.notifier.RoomStatusChanged(roomID, models.RoomStatusFull)
	}
	s.logger.Info("user joined room", "room_id", roomID, "user_id", userID)
	return participant, nil
}

func (s *roomService) CreateTeam(ctx context.Context, roomID uuid.UUID, leaderUserID int, inviteeGameIDs []string) (*models.RoomParticipant, []*models.TeamInvitation, error) {
	invitees, err := normalizeInvitees(inviteeGameIDs)
	if err != nil {
		return nil, nil, err
	}

	var leader *models.RoomParticipant
	var invitations []*models.TeamInvitation

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}

		// Capacity reserves the whole team, not just the leader's seat.
		tournament, profile, _, err := s.joinChecks(ctx, tx, room, leaderUserID, 1+len(invitees))
		if err != nil {
			return err
		}

		teamSize := tournament.TeamSize()
		if teamSize < 2 {
			return ErrNotTeamTournament
		}
		if len(invitees) < 1 || len(invitees) > teamSize-1 {
			return ErrInviteeCountInvalid
		}
		for _, gameID := range invitees {
			if profile.OwnsIdentifier(gameID) {
				return ErrSelfInvite
			}
		}

		share := tournament.EntryFee
		if room.PaymentType == models.PaymentSplitEqually {
			share = tournament.EntryShare()
		}
		note := fmt.Sprintf("Team entry fee for %s", tournament.Name)
		if _, err := s.wallet.Debit(ctx, tx, profile.ID, share, note); err != nil {
			return err
		}

		leader = &models.RoomParticipant{
			ID:           uuid.New(),
			RoomID:       room.ID,
			UserID:       leaderUserID,
			Paid:         true,
			IsTeamLeader: true,
			PaymentShare: share,
		}
		if err := s.participantRepo.Create(ctx, tx, leader); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrAlreadyJoined
			}
			return err
		}

		invitations = make([]*models.TeamInvitation, 0, len(invitees))
		for _, gameID := range invitees {
			inv := &models.TeamInvitation{
				ID:            uuid.New(),
				RoomID:        room.ID,
				InviterID:     leaderUserID,
				InviteeGameID: gameID,
				Status:        models.InvitationPending,
			}
			// Resolve eagerly when the identifier is already known;
			// otherwise the invitation stays claimable by whoever
			// registers it.
			if invitee, resolveErr := s.profileRepo.GetByAnyGameID(ctx, tx, gameID); resolveErr == nil {
				inv.InviteeUserID = &invitee.UserID
			} else if !errors.Is(resolveErr, repositories.ErrProfileNotFound) {
				return resolveErr
			}
			if err := s.invitationRepo.Create(ctx, tx, inv); err != nil {
				return err
			}
			invitations = append(invitations, inv)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("team created", "room_id", roomID, "leader_id", leaderUserID, "invitations", len(invitations))
	return leader, invitations, nil
}

func (s *roomService) AcceptInvitation(ctx context.Context, invitationID uuid.UUID, userID int) (*models.RoomParticipant, error) {
	var participant *models.RoomParticipant
	var becameFull bool
	var roomID uuid.UUID

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		inv, err := s.invitationRepo.GetByID(ctx, tx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvitationPending {
			return repositories.ErrInvitationProcessed
		}
		roomID = inv.RoomID

		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, inv.RoomID)
		if err != nil {
			return err
		}

		tournament, profile, total, err := s.joinChecks(ctx, tx, room, userID, 1)
		if err != nil {
			return err
		}
		if !profile.OwnsIdentifier(inv.InviteeGameID) {
			return ErrInvitationNotForUser
		}

		// The room may hold several teams, so size the inviter's team
		// alone; tournament capacity was already checked above.
		teamCount, err := s.participantRepo.CountByTeam(ctx, tx, room.ID, inv.InviterID)
		if err != nil {
			return err
		}
		if teamCount >= tournament.TeamSize() {
			return ErrTeamFull
		}

		share := decimal.Zero
		paid := true
		if room.PaymentType == models.PaymentSplitEqually {
			share = tournament.EntryShare()
			note := fmt.Sprintf("Entry fee share for %s", tournament.Name)
			if _, err := s.wallet.Debit(ctx, tx, profile.ID, share, note); err != nil {
				return err
			}
		}

		participant = &models.RoomParticipant{
			ID:           uuid.New(),
			RoomID:       room.ID,
			UserID:       userID,
			Paid:         paid,
			TeamLeaderID: &inv.InviterID,
			IsTeamLeader: false,
			PaymentShare: share,
		}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrAlreadyJoined
			}
			return err
		}

		if err := s.invitationRepo.Resolve(ctx, tx, inv.ID, models.InvitationAccepted, &userID); err != nil {
			return err
		}

		if total+1 >= tournament.MaxParticipants {
			if err := s.roomRepo.UpdateStatus(ctx, tx, room.ID, models.RoomStatusFull); err != nil {
				return err
			}
			becameFull = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if becameFull && s.notifier != nil {
		s.notifier.RoomStatusChanged(roomID, models.RoomStatusFull)
	}
	s.logger.Info("invitation accepted", "invitation_id", invitationID, "user_id", userID)
	return participant, nil
}

func (s *roomService) RejectInvitation(ctx context.Context, invitationID uuid.UUID, userID int) error {
	inv, err := s.invitationRepo.GetByID(ctx, nil, invitationID)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if !profile.OwnsIdentifier(inv.InviteeGameID) {
		return ErrInvitationNotForUser
	}

	return s.invitationRepo.Resolve(ctx, nil, invitationID, models.InvitationRejected, &userID)
}

func (s *roomService) MyInvitations(ctx context.Context, userID int) ([]*models.TeamInvitation, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return s.invitationRepo.ListPendingByGameIDs(ctx, profile.GameIdentifiers())
}

func (s *roomService) MyRooms(ctx context.Context, userID int) ([]*RoomDetail, error) {
	memberships, err := s.participantRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]*RoomDetail, 0, len(memberships))
	for _, m := range memberships {
		detail, err := s.RoomDetail(ctx, m.RoomID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *roomService) RoomDetail(ctx context.Context, roomID uuid.UUID) (*RoomDetail, error) {
	room, err := s.roomRepo.GetByID(ctx, nil, roomID)
	if err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, room.TournamentID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByRoom(ctx, nil, roomID)
	if err != nil {
		return nil, err
	}

	pool := decimal.Zero
	for _, p := range participants {
		if p.Paid {
			pool = pool.Add(p.PaymentShare)
		}
	}

	return &RoomDetail{
		Room:         room,
		Tournament:   tournament,
		Participants: participants,
		PrizePool:    pool,
	}, nil
}

func (s *roomService) CancelRoom(ctx context.Context, roomID uuid.UUID) error {
	return s.transition(ctx, roomID, models.RoomStatusCancelled)
}

func (s *roomService) StartRoom(ctx context.Context, roomID uuid.UUID) error {
	return s.transition(ctx, roomID, models.RoomStatusStarted)
}

func (s *roomService) transition(ctx context.Context, roomID uuid.UUID, next models.RoomStatus) error {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if !room.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, room.Status, next)
		}
		return s.roomRepo.UpdateStatus(ctx, tx, roomID, next)
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.RoomStatusChanged(roomID, next)
	}
	s.logger.Info("room status changed", "room_id", roomID, "status", next)
	return nil
}

// CreateEntryOrder reserves a seat as an unpaid participant and opens a
// gateway order for the player's share. The gateway call happens after
// the reservation commits so no external call runs inside the
// transaction.
func (s *roomService) CreateEntryOrder(ctx context.Context, roomID uuid.UUID, userID int) (string, error) {
	var participant *models.RoomParticipant
	var share decimal.Decimal

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}
		tournament, _, _, err := s.joinChecks(ctx, tx, room, userID, 1)
		if err != nil {
			return err
		}

		share = tournament.EntryShare()
		participant = &models.RoomParticipant{
			ID:           uuid.New(),
			RoomID:       room.ID,
			UserID:       userID,
			Paid:         false,
			IsTeamLeader: tournament.TeamSize() == 1,
			PaymentShare: share,
		}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrAlreadyJoined
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	orderID, err := s.gateway.CreateOrder(ctx, share, "INR", participant.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create gateway order: %w", err)
	}
	if err := s.participantRepo.SetGatewayOrder(ctx, nil, participant.ID, orderID); err != nil {
		return "", err
	}
	return orderID, nil
}

func (s *roomService) VerifyGatewayPayment(ctx context.Context, orderID, paymentID, signature string) (*models.RoomParticipant, error) {
	// Signature check strictly before the transaction.
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return nil, ErrPaymentVerificationFailed
	}

	var participant *models.RoomParticipant
	var becameFull bool
	var roomID uuid.UUID

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		p, err := s.participantRepo.GetByGatewayOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		roomID = p.RoomID

		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, p.RoomID)
		if err != nil {
			return err
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, room.TournamentID)
		if err != nil {
			return err
		}

		if !p.Paid {
			if err := s.participantRepo.MarkPaid(ctx, tx, p.ID, &paymentID); err != nil {
				return err
			}
			p.Paid = true
			p.GatewayPaymentID = &paymentID
		}
		participant = p

		total, err := s.participantRepo.CountByTournament(ctx, tx, tournament.ID)
		if err != nil {
			return err
		}
		if room.Status == models.RoomStatusOpen && total >= tournament.MaxParticipants {
			if err := s.roomRepo.UpdateStatus(ctx, tx, room.ID, models.RoomStatusFull); err != nil {
				return err
			}
			becameFull = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if becameFull && s.notifier != nil {
		s.notifier.RoomStatusChanged(roomID, models.RoomStatusFull)
	}
	return participant, nil
}

func normalizeInvitees(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: empty invitee identifier", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate invitee identifier %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
