package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type roomFixture struct {
	profiles     *fakeProfileRepo
	ledger       *fakeTransactionRepo
	rooms        *fakeRoomRepo
	tournaments  *fakeTournamentRepo
	participants *fakeParticipantRepo
	invitations  *fakeInvitationRepo
	gateway      *fakeGateway
	notifier     *fakeNotifier
	svc          RoomService
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()
	rooms := newFakeRoomRepo()
	f := &roomFixture{
		profiles:     newFakeProfileRepo(),
		ledger:       &fakeTransactionRepo{},
		rooms:        rooms,
		tournaments:  newFakeTournamentRepo(),
		participants: &fakeParticipantRepo{rooms: rooms},
		invitations:  newFakeInvitationRepo(),
		gateway:      &fakeGateway{validSig: true},
		notifier:     &fakeNotifier{},
	}
	wallet := NewWalletService(f.profiles, f.ledger)
	f.svc = NewRoomService(newTestDB(t), f.rooms, f.tournaments, f.participants,
		f.invitations, f.profiles, wallet, f.gateway, f.notifier, testLogger())
	return f
}

func (f *roomFixture) seed(t *testing.T, mode models.TeamMode, entryFee int64, maxParticipants int, paymentType models.PaymentType) (*models.Tournament, *models.Room) {
	t.Helper()
	ctx := context.Background()
	tournament := &models.Tournament{
		Name:            "Friday Cup",
		Game:            models.GameBGMI,
		EntryFee:        decimal.NewFromInt(entryFee),
		TeamMode:        mode,
		MaxParticipants: maxParticipants,
		IsActive:        true,
	}
	if err := f.tournaments.Create(ctx, nil, tournament); err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	room := &models.Room{
		ID:           uuid.New(),
		TournamentID: tournament.ID,
		Status:       models.RoomStatusOpen,
		PaymentType:  paymentType,
	}
	if err := f.rooms.Create(ctx, nil, room); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return tournament, room
}

func TestJoinSoloDebitsShareAndFillsRoom(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 2, models.PaymentLeaderPaysAll)

	first := f.profiles.add(1, decimal.NewFromInt(150), "alpha")
	second := f.profiles.add(2, decimal.NewFromInt(150), "bravo")
	ctx := context.Background()

	p1, err := f.svc.JoinSolo(ctx, room.ID, 1)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if !p1.Paid || !p1.PaymentShare.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected paid participant with share 100, got paid=%v share=%s", p1.Paid, p1.PaymentShare)
	}
	if room.Status != models.RoomStatusOpen {
		t.Fatalf("room should stay open after first join, got %s", room.Status)
	}

	if _, err := f.svc.JoinSolo(ctx, room.ID, 2); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if room.Status != models.RoomStatusFull {
		t.Fatalf("expected room full, got %s", room.Status)
	}

	if !first.Balance.Equal(decimal.NewFromInt(50)) || !second.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected both balances 50, got %s and %s", first.Balance, second.Balance)
	}
	if len(f.notifier.statusChanges) != 1 || f.notifier.statusChanges[0] != models.RoomStatusFull {
		t.Fatalf("expected one full notification, got %v", f.notifier.statusChanges)
	}
}

func TestJoinSoloRejectsSecondJoinBySameUser(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)
	profile := f.profiles.add(1, decimal.NewFromInt(100), "alpha")
	ctx := context.Background()

	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	// Only the first entry fee was taken.
	if !profile.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected balance 90, got %s", profile.Balance)
	}
}

func TestJoinSoloInsufficientFunds(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(40), "alpha")

	_, err := f.svc.JoinSolo(context.Background(), room.ID, 1)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if count, _ := f.participants.CountByRoom(context.Background(), nil, room.ID); count != 0 {
		t.Fatalf("expected no participants after failed join, got %d", count)
	}
}

func TestJoinSoloRejectedOnceRoomIsFull(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 10, 1, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "alpha")
	f.profiles.add(2, decimal.NewFromInt(100), "bravo")
	ctx := context.Background()

	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if room.Status != models.RoomStatusFull {
		t.Fatalf("expected room full at capacity, got %s", room.Status)
	}
	// The status guard fires before the capacity count.
	if _, err := f.svc.JoinSolo(ctx, room.ID, 2); !errors.Is(err, ErrRoomNotOpen) {
		t.Fatalf("expected ErrRoomNotOpen, got %v", err)
	}
}

func TestCreateTeamRejectsWhenCapacityExhausted(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 10, 2, models.PaymentSplitEqually)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-a")
	f.profiles.add(2, decimal.NewFromInt(100), "leader-b")
	ctx := context.Background()

	if _, _, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-a"}); err != nil {
		t.Fatalf("first team: %v", err)
	}
	// The first team reserved both seats, so the room is exhausted
	// while still open.
	if room.Status != models.RoomStatusOpen {
		t.Fatalf("expected room still open, got %s", room.Status)
	}
	if _, _, err := f.svc.CreateTeam(ctx, room.ID, 2, []string{"mate-b"}); !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("expected ErrTournamentFull, got %v", err)
	}
}

func TestJoinSoloRequiresVerifiedGameID(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)
	profile := f.profiles.add(1, decimal.NewFromInt(100), "alpha")
	profile.GameIDVerified = false

	if _, err := f.svc.JoinSolo(context.Background(), room.ID, 1); !errors.Is(err, ErrGameIDNotVerified) {
		t.Fatalf("expected ErrGameIDNotVerified, got %v", err)
	}
}

func TestJoinSoloRejectsInactiveTournamentAndClosedRoom(t *testing.T) {
	f := newRoomFixture(t)
	tournament, room := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "alpha")
	ctx := context.Background()

	tournament.IsActive = false
	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); !errors.Is(err, ErrTournamentInactive) {
		t.Fatalf("expected ErrTournamentInactive, got %v", err)
	}

	tournament.IsActive = true
	room.Status = models.RoomStatusStarted
	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); !errors.Is(err, ErrRoomNotOpen) {
		t.Fatalf("expected ErrRoomNotOpen, got %v", err)
	}
}

func TestCreateTeamLeaderPaysAll(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 2, models.PaymentLeaderPaysAll)
	leader := f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	mate := f.profiles.add(2, decimal.Zero, "mate-id")
	ctx := context.Background()

	leaderPart, invitations, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-id"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if !leaderPart.PaymentShare.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected leader share 100, got %s", leaderPart.PaymentShare)
	}
	if !leader.Balance.IsZero() {
		t.Fatalf("expected leader balance 0, got %s", leader.Balance)
	}
	if len(invitations) != 1 {
		t.Fatalf("expected 1 invitation, got %d", len(invitations))
	}
	// The identifier is already registered, so the invitee resolves at
	// creation time.
	if invitations[0].InviteeUserID == nil || *invitations[0].InviteeUserID != 2 {
		t.Fatalf("expected invitation resolved to user 2, got %v", invitations[0].InviteeUserID)
	}

	matePart, err := f.svc.AcceptInvitation(ctx, invitations[0].ID, 2)
	if err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if !matePart.PaymentShare.IsZero() || !matePart.Paid {
		t.Fatalf("expected paid teammate with zero share, got paid=%v share=%s", matePart.Paid, matePart.PaymentShare)
	}
	if !mate.Balance.IsZero() {
		t.Fatalf("teammate must not be debited under leader_pays_all, balance %s", mate.Balance)
	}
	if matePart.TeamLeaderID == nil || *matePart.TeamLeaderID != 1 {
		t.Fatalf("expected teammate linked to leader 1, got %v", matePart.TeamLeaderID)
	}
	if room.Status != models.RoomStatusFull {
		t.Fatalf("expected room full after team completes, got %s", room.Status)
	}
}

func TestCreateTeamSplitEquallyDebitsEachShare(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 2, models.PaymentSplitEqually)
	leader := f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	mate := f.profiles.add(2, decimal.NewFromInt(100), "mate-id")
	ctx := context.Background()

	_, invitations, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-id"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if !leader.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected leader balance 50, got %s", leader.Balance)
	}

	matePart, err := f.svc.AcceptInvitation(ctx, invitations[0].ID, 2)
	if err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if !matePart.PaymentShare.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected teammate share 50, got %s", matePart.PaymentShare)
	}
	if !mate.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected teammate balance 50, got %s", mate.Balance)
	}
}

func TestCreateTeamValidation(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	_, soloRoom := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-id")

	if _, _, err := f.svc.CreateTeam(ctx, soloRoom.ID, 1, []string{"mate-id"}); !errors.Is(err, ErrNotTeamTournament) {
		t.Fatalf("expected ErrNotTeamTournament, got %v", err)
	}

	_, squadRoom := f.seed(t, models.TeamModeSquad, 40, 8, models.PaymentLeaderPaysAll)
	if _, _, err := f.svc.CreateTeam(ctx, squadRoom.ID, 1, []string{"a", "b", "c", "d"}); !errors.Is(err, ErrInviteeCountInvalid) {
		t.Fatalf("expected ErrInviteeCountInvalid, got %v", err)
	}
	if _, _, err := f.svc.CreateTeam(ctx, squadRoom.ID, 1, []string{"leader-id"}); !errors.Is(err, ErrSelfInvite) {
		t.Fatalf("expected ErrSelfInvite, got %v", err)
	}
	if _, _, err := f.svc.CreateTeam(ctx, squadRoom.ID, 1, []string{"a", "a"}); !errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate-identifier error, got %v", err)
	}
	if _, _, err := f.svc.CreateTeam(ctx, squadRoom.ID, 1, []string{"a", " "}); !errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-identifier error, got %v", err)
	}
}

func TestAcceptInvitationOwnershipAndReplay(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	f.profiles.add(2, decimal.NewFromInt(100), "mate-id")
	f.profiles.add(3, decimal.NewFromInt(100), "other-id")
	ctx := context.Background()

	_, invitations, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-id"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	invID := invitations[0].ID

	// User 3 does not own the invited identifier.
	if _, err := f.svc.AcceptInvitation(ctx, invID, 3); !errors.Is(err, ErrInvitationNotForUser) {
		t.Fatalf("expected ErrInvitationNotForUser, got %v", err)
	}

	if _, err := f.svc.AcceptInvitation(ctx, invID, 2); err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if _, err := f.svc.AcceptInvitation(ctx, invID, 2); !errors.Is(err, repositories.ErrInvitationProcessed) {
		t.Fatalf("expected ErrInvitationProcessed on replay, got %v", err)
	}
}

func TestAcceptInvitationWithMultipleTeamsInRoom(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-a")
	f.profiles.add(2, decimal.NewFromInt(100), "leader-b")
	f.profiles.add(3, decimal.Zero, "mate-a")
	f.profiles.add(4, decimal.Zero, "mate-b")
	ctx := context.Background()

	_, invsA, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-a"})
	if err != nil {
		t.Fatalf("team A: %v", err)
	}
	_, invsB, err := f.svc.CreateTeam(ctx, room.ID, 2, []string{"mate-b"})
	if err != nil {
		t.Fatalf("team B: %v", err)
	}

	mateA, err := f.svc.AcceptInvitation(ctx, invsA[0].ID, 3)
	if err != nil {
		t.Fatalf("team A mate accept: %v", err)
	}
	if mateA.TeamLeaderID == nil || *mateA.TeamLeaderID != 1 {
		t.Fatalf("expected team A mate linked to leader 1, got %v", mateA.TeamLeaderID)
	}
	if room.Status != models.RoomStatusOpen {
		t.Fatalf("room must stay open with seats left, got %s", room.Status)
	}

	mateB, err := f.svc.AcceptInvitation(ctx, invsB[0].ID, 4)
	if err != nil {
		t.Fatalf("team B mate accept: %v", err)
	}
	if mateB.TeamLeaderID == nil || *mateB.TeamLeaderID != 2 {
		t.Fatalf("expected team B mate linked to leader 2, got %v", mateB.TeamLeaderID)
	}
	if room.Status != models.RoomStatusFull {
		t.Fatalf("expected room full after last seat, got %s", room.Status)
	}
}

func TestAcceptInvitationTeamAtSize(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 10, 6, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	f.profiles.add(2, decimal.NewFromInt(100), "mate-id")
	ctx := context.Background()

	_, invitations, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-id"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	// Another teammate already took the duo's second seat.
	leaderID := 1
	taken := &models.RoomParticipant{
		ID:           uuid.New(),
		RoomID:       room.ID,
		UserID:       5,
		Paid:         true,
		TeamLeaderID: &leaderID,
	}
	if err := f.participants.Create(ctx, nil, taken); err != nil {
		t.Fatalf("seed teammate: %v", err)
	}

	if _, err := f.svc.AcceptInvitation(ctx, invitations[0].ID, 2); !errors.Is(err, ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}
}

func TestRejectInvitation(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	mate := f.profiles.add(2, decimal.NewFromInt(100), "mate-id")
	ctx := context.Background()

	_, invitations, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-id"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	if err := f.svc.RejectInvitation(ctx, invitations[0].ID, 2); err != nil {
		t.Fatalf("reject invitation: %v", err)
	}
	if invitations[0].Status != models.InvitationRejected {
		t.Fatalf("expected rejected, got %s", invitations[0].Status)
	}
	if !mate.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("rejection must not touch the balance, got %s", mate.Balance)
	}
}

func TestMyInvitationsMatchesAnyIdentifier(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeDuo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(100), "leader-id")
	mate := f.profiles.add(2, decimal.NewFromInt(100), "mate-id")
	bgmi := "mate-bgmi"
	mate.BGMIID = &bgmi
	ctx := context.Background()

	if _, _, err := f.svc.CreateTeam(ctx, room.ID, 1, []string{"mate-bgmi"}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	pending, err := f.svc.MyInvitations(ctx, 2)
	if err != nil {
		t.Fatalf("my invitations: %v", err)
	}
	if len(pending) != 1 || pending[0].InviteeGameID != "mate-bgmi" {
		t.Fatalf("expected one invitation for mate-bgmi, got %+v", pending)
	}
}

func TestCreateRoomIsIdempotentPerTournament(t *testing.T) {
	f := newRoomFixture(t)
	tournament, room := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)

	created, err := f.svc.CreateRoom(context.Background(), tournament.ID, 99, models.PaymentSplitEqually)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if created.ID != room.ID {
		t.Fatalf("expected existing room %s, got %s", room.ID, created.ID)
	}
}

func TestCancelRoomIsPureStatusChange(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 4, models.PaymentLeaderPaysAll)
	profile := f.profiles.add(1, decimal.NewFromInt(150), "alpha")
	ctx := context.Background()

	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := f.svc.CancelRoom(ctx, room.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if room.Status != models.RoomStatusCancelled {
		t.Fatalf("expected cancelled, got %s", room.Status)
	}
	// Entry fees are not refunded on cancellation.
	if !profile.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected balance 50 after cancel, got %s", profile.Balance)
	}
}

func TestRoomStatusTransitionsRejected(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 10, 4, models.PaymentLeaderPaysAll)
	ctx := context.Background()

	room.Status = models.RoomStatusCompleted
	if err := f.svc.CancelRoom(ctx, room.ID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if err := f.svc.StartRoom(ctx, room.ID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestRoomDetailSumsPaidShares(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 4, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.NewFromInt(150), "alpha")
	f.profiles.add(2, decimal.NewFromInt(150), "bravo")
	ctx := context.Background()

	if _, err := f.svc.JoinSolo(ctx, room.ID, 1); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.svc.JoinSolo(ctx, room.ID, 2); err != nil {
		t.Fatalf("join: %v", err)
	}

	detail, err := f.svc.RoomDetail(ctx, room.ID)
	if err != nil {
		t.Fatalf("room detail: %v", err)
	}
	if !detail.PrizePool.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected prize pool 200, got %s", detail.PrizePool)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(detail.Participants))
	}
}

func TestCreateEntryOrderReservesUnpaidSeat(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 2, models.PaymentLeaderPaysAll)
	profile := f.profiles.add(1, decimal.Zero, "alpha")
	ctx := context.Background()

	orderID, err := f.svc.CreateEntryOrder(ctx, room.ID, 1)
	if err != nil {
		t.Fatalf("create entry order: %v", err)
	}
	if orderID == "" {
		t.Fatal("expected a gateway order id")
	}
	if !f.gateway.lastAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected order amount 100, got %s", f.gateway.lastAmount)
	}

	participant, err := f.participants.GetByGatewayOrderID(ctx, nil, orderID)
	if err != nil {
		t.Fatalf("participant not reserved: %v", err)
	}
	if participant.Paid {
		t.Fatal("participant must stay unpaid until the gateway confirms")
	}
	// No wallet movement on the gateway path.
	if !profile.Balance.IsZero() {
		t.Fatalf("expected balance untouched, got %s", profile.Balance)
	}
}

func TestVerifyGatewayPaymentRejectsBadSignature(t *testing.T) {
	f := newRoomFixture(t)
	f.gateway.validSig = false

	_, err := f.svc.VerifyGatewayPayment(context.Background(), "order_1", "pay_1", "bogus")
	if !errors.Is(err, ErrPaymentVerificationFailed) {
		t.Fatalf("expected ErrPaymentVerificationFailed, got %v", err)
	}
}

func TestVerifyGatewayPaymentMarksPaidAndFillsRoom(t *testing.T) {
	f := newRoomFixture(t)
	_, room := f.seed(t, models.TeamModeSolo, 100, 1, models.PaymentLeaderPaysAll)
	f.profiles.add(1, decimal.Zero, "alpha")
	ctx := context.Background()

	orderID, err := f.svc.CreateEntryOrder(ctx, room.ID, 1)
	if err != nil {
		t.Fatalf("create entry order: %v", err)
	}

	participant, err := f.svc.VerifyGatewayPayment(ctx, orderID, "pay_1", "sig")
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if !participant.Paid {
		t.Fatal("expected participant marked paid")
	}
	if participant.GatewayPaymentID == nil || *participant.GatewayPaymentID != "pay_1" {
		t.Fatalf("expected payment id recorded, got %v", participant.GatewayPaymentID)
	}
	if room.Status != models.RoomStatusFull {
		t.Fatalf("expected room full, got %s", room.Status)
	}

	// Re-verification of the same order is a no-op.
	again, err := f.svc.VerifyGatewayPayment(ctx, orderID, "pay_1", "sig")
	if err != nil {
		t.Fatalf("verify payment replay: %v", err)
	}
	if !again.Paid {
		t.Fatal("expected participant still paid")
	}
}
