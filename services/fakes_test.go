package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/payments"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/arenapulse/esports-system/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory fakes for the repository interfaces. They ignore the
// executor argument; transactional behavior is exercised against the
// stub driver, so tests assert committed-path state and returned
// errors only.

type fakeProfileRepo struct {
	nextID   int
	profiles map[int]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int]*models.Profile)}
}

// add seeds a verified player with the given balance and game id.
func (f *fakeProfileRepo) add(userID int, balance decimal.Decimal, gameID string) *models.Profile {
	p := models.NewProfile(userID)
	f.nextID++
	p.ID = f.nextID
	p.Balance = balance
	if gameID != "" {
		id := gameID
		p.GameID = &id
	}
	p.GameIDVerified = true
	p.GameIDStatus = models.VerificationApproved
	f.profiles[p.ID] = p
	return p
}

func (f *fakeProfileRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Profile) error {
	for _, existing := range f.profiles {
		if existing.UserID == p.UserID {
			return repositories.ErrProfileExists
		}
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByPlayerUUID(ctx context.Context, exec repositories.SQLExecutor, playerUUID uuid.UUID) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.PlayerUUID == playerUUID {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByAnyGameID(ctx context.Context, exec repositories.SQLExecutor, gameID string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.OwnsIdentifier(gameID) {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) IdentifierInUse(ctx context.Context, column, value string, excludeUserID int) (bool, error) {
	for _, p := range f.profiles {
		if p.UserID == excludeUserID {
			continue
		}
		if p.OwnsIdentifier(value) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, exec repositories.SQLExecutor, p *models.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) UpdateVerification(ctx context.Context, exec repositories.SQLExecutor, profileID int, section models.VerificationSection, status models.VerificationStatus, reason *string) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	switch section {
	case models.SectionKYC:
		p.KYCStatus = status
		p.KYCRejectionReason = reason
	case models.SectionGameID:
		p.GameIDStatus = status
		p.GameIDVerified = status == models.VerificationApproved
		p.GameIDRejectionReason = reason
	case models.SectionPayment:
		p.PaymentDetailsStatus = status
		p.PaymentDetailsRejectionReason = reason
	}
	return nil
}

func (f *fakeProfileRepo) SetKYCDocumentKey(ctx context.Context, profileID int, key string) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.KYCDocumentKey = &key
	return nil
}

func (f *fakeProfileRepo) ListPendingVerifications(ctx context.Context) ([]*models.Profile, error) {
	out := make([]*models.Profile, 0)
	for _, p := range f.profiles {
		if p.KYCStatus == models.VerificationPending ||
			p.GameIDStatus == models.VerificationPending ||
			p.PaymentDetailsStatus == models.VerificationPending {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) AddToBalance(ctx context.Context, exec repositories.SQLExecutor, profileID int, delta decimal.Decimal) (decimal.Decimal, error) {
	p, ok := f.profiles[profileID]
	if !ok {
		return decimal.Zero, repositories.ErrProfileNotFound
	}
	next := p.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, repositories.ErrInsufficientBalance
	}
	p.Balance = next
	return next, nil
}

func (f *fakeProfileRepo) GetBalance(ctx context.Context, exec repositories.SQLExecutor, profileID int) (decimal.Decimal, error) {
	p, ok := f.profiles[profileID]
	if !ok {
		return decimal.Zero, repositories.ErrProfileNotFound
	}
	return p.Balance, nil
}

func (f *fakeProfileRepo) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.profiles {
		sum = sum.Add(p.Balance)
	}
	return sum, nil
}

type fakeTransactionRepo struct {
	entries []*models.WalletTransaction
}

func (f *fakeTransactionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, tx *models.WalletTransaction) error {
	tx.CreatedAt = time.Now()
	f.entries = append(f.entries, tx)
	return nil
}

func (f *fakeTransactionRepo) ListByProfile(ctx context.Context, profileID int, limit, offset int) ([]*models.WalletTransaction, error) {
	out := make([]*models.WalletTransaction, 0)
	for _, e := range f.entries {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}

// byProfile is a test helper mirroring ListByProfile without paging.
func (f *fakeTransactionRepo) byProfile(profileID int) []*models.WalletTransaction {
	out, _ := f.ListByProfile(context.Background(), profileID, 0, 0)
	return out
}

type fakeRoomRepo struct {
	rooms map[uuid.UUID]*models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*models.Room)}
}

func (f *fakeRoomRepo) Create(ctx context.Context, exec repositories.SQLExecutor, room *models.Room) error {
	for _, r := range f.rooms {
		if r.TournamentID == room.TournamentID {
			return repositories.ErrRoomAlreadyExists
		}
	}
	room.CreatedAt = time.Now()
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, repositories.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRoomRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Room, error) {
	return f.GetByID(ctx, exec, id)
}

func (f *fakeRoomRepo) GetByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.Room, error) {
	for _, r := range f.rooms {
		if r.TournamentID == tournamentID {
			return r, nil
		}
	}
	return nil, repositories.ErrRoomNotFound
}

func (f *fakeRoomRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.RoomStatus) error {
	r, ok := f.rooms[id]
	if !ok {
		return repositories.ErrRoomNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRoomRepo) CountByStatus(ctx context.Context, status models.RoomStatus) (int, error) {
	count := 0
	for _, r := range f.rooms {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
}

func (f *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0)
	for _, t := range f.tournaments {
		if filter.ActiveOnly && !t.IsActive {
			continue
		}
		if filter.Game != nil && t.Game != *filter.Game {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) SetActive(ctx context.Context, id int, active bool) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.IsActive = active
	return nil
}

func (f *fakeTournamentRepo) CountAll(ctx context.Context) (int, error) {
	return len(f.tournaments), nil
}

func (f *fakeTournamentRepo) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, t := range f.tournaments {
		if t.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeParticipantRepo struct {
	rooms        *fakeRoomRepo
	participants []*models.RoomParticipant
}

func (f *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.RoomParticipant) error {
	for _, existing := range f.participants {
		if existing.RoomID == p.RoomID && existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
	}
	p.JoinedAt = time.Now()
	f.participants = append(f.participants, p)
	return nil
}

func (f *fakeParticipantRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.RoomParticipant, error) {
	for _, p := range f.participants {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) GetByRoomAndUser(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID, userID int) (*models.RoomParticipant, error) {
	for _, p := range f.participants {
		if p.RoomID == roomID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) CountByTeam(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID, leaderUserID int) (int, error) {
	count := 0
	for _, p := range f.participants {
		if p.RoomID != roomID {
			continue
		}
		if p.UserID == leaderUserID || (p.TeamLeaderID != nil && *p.TeamLeaderID == leaderUserID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipantRepo) GetByGatewayOrderID(ctx context.Context, exec repositories.SQLExecutor, orderID string) (*models.RoomParticipant, error) {
	for _, p := range f.participants {
		if p.GatewayOrderID != nil && *p.GatewayOrderID == orderID {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) ListByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID) ([]*models.RoomParticipant, error) {
	out := make([]*models.RoomParticipant, 0)
	for _, p := range f.participants {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListByUser(ctx context.Context, userID int) ([]*models.RoomParticipant, error) {
	out := make([]*models.RoomParticipant, 0)
	for _, p := range f.participants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) CountByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID) (int, error) {
	list, _ := f.ListByRoom(ctx, exec, roomID)
	return len(list), nil
}

func (f *fakeParticipantRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, p := range f.participants {
		room, ok := f.rooms.rooms[p.RoomID]
		if ok && room.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipantRepo) CountPaidByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID) (int, error) {
	count := 0
	for _, p := range f.participants {
		if p.RoomID == roomID && p.Paid {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipantRepo) SetGatewayOrder(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, orderID string) error {
	p, err := f.GetByID(ctx, exec, id)
	if err != nil {
		return err
	}
	p.GatewayOrderID = &orderID
	return nil
}

func (f *fakeParticipantRepo) MarkPaid(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, gatewayPaymentID *string) error {
	p, err := f.GetByID(ctx, exec, id)
	if err != nil {
		return err
	}
	p.Paid = true
	p.GatewayPaymentID = gatewayPaymentID
	return nil
}

type fakeInvitationRepo struct {
	invitations map[uuid.UUID]*models.TeamInvitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[uuid.UUID]*models.TeamInvitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, inv *models.TeamInvitation) error {
	inv.CreatedAt = time.Now()
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.TeamInvitation, error) {
	inv, ok := f.invitations[id]
	if !ok {
		return nil, repositories.ErrInvitationNotFound
	}
	return inv, nil
}

func (f *fakeInvitationRepo) Resolve(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.InvitationStatus, inviteeUserID *int) error {
	inv, ok := f.invitations[id]
	if !ok {
		return repositories.ErrInvitationNotFound
	}
	if inv.Status != models.InvitationPending {
		return repositories.ErrInvitationProcessed
	}
	inv.Status = status
	if inviteeUserID != nil {
		inv.InviteeUserID = inviteeUserID
	}
	return nil
}

func (f *fakeInvitationRepo) ListPendingByGameIDs(ctx context.Context, gameIDs []string) ([]*models.TeamInvitation, error) {
	out := make([]*models.TeamInvitation, 0)
	for _, inv := range f.invitations {
		if inv.Status != models.InvitationPending {
			continue
		}
		for _, id := range gameIDs {
			if inv.InviteeGameID == id {
				out = append(out, inv)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.TeamInvitation, error) {
	out := make([]*models.TeamInvitation, 0)
	for _, inv := range f.invitations {
		if inv.RoomID == roomID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var expired int64
	for _, inv := range f.invitations {
		if inv.Status == models.InvitationPending && inv.CreatedAt.Before(cutoff) {
			inv.Status = models.InvitationExpired
			expired++
		}
	}
	return expired, nil
}

type fakeResultRepo struct {
	results map[uuid.UUID]*models.RoomResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[uuid.UUID]*models.RoomResult)}
}

func (f *fakeResultRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, result *models.RoomResult) error {
	for _, existing := range f.results {
		if existing.RoomID != result.RoomID || existing.ParticipantID != result.ParticipantID {
			continue
		}
		if existing.PayoutStatus == models.PayoutPaid {
			return repositories.ErrResultAlreadyPaid
		}
		existing.Rank = result.Rank
		existing.PrizeAmount = result.PrizeAmount
		existing.PayoutStatus = result.PayoutStatus
		existing.ApprovedBy = result.ApprovedBy
		existing.ApprovedAt = result.ApprovedAt
		result.ID = existing.ID
		return nil
	}
	result.CreatedAt = time.Now()
	f.results[result.ID] = result
	return nil
}

func (f *fakeResultRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.RoomResult, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeResultRepo) ListByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error) {
	out := make([]*models.RoomResult, 0)
	for _, r := range f.results {
		if r.RoomID == roomID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListPendingByRoomForUpdate(ctx context.Context, exec repositories.SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error) {
	out := make([]*models.RoomResult, 0)
	for _, r := range f.results {
		if r.RoomID == roomID && r.PayoutStatus == models.PayoutPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListPending(ctx context.Context) ([]*models.RoomResult, error) {
	out := make([]*models.RoomResult, 0)
	for _, r := range f.results {
		if r.PayoutStatus == models.PayoutPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) MarkPaid(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, approvedBy int, approvedAt time.Time) error {
	r, ok := f.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	if r.PayoutStatus != models.PayoutPending {
		return repositories.ErrResultAlreadyPaid
	}
	r.PayoutStatus = models.PayoutPaid
	r.ApprovedBy = &approvedBy
	r.ApprovedAt = &approvedAt
	return nil
}

func (f *fakeResultRepo) CountPending(ctx context.Context) (int, error) {
	pending, _ := f.ListPending(ctx)
	return len(pending), nil
}

type fakePrizeRepo struct {
	byTournament map[int][]*models.PrizeDistribution
}

func newFakePrizeRepo() *fakePrizeRepo {
	return &fakePrizeRepo{byTournament: make(map[int][]*models.PrizeDistribution)}
}

// set seeds a rank -> amount prize table for a tournament.
func (f *fakePrizeRepo) set(tournamentID int, amounts map[int]decimal.Decimal) {
	dists := make([]*models.PrizeDistribution, 0, len(amounts))
	for rank, amount := range amounts {
		dists = append(dists, &models.PrizeDistribution{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Rank:         rank,
			PrizeAmount:  amount,
		})
	}
	f.byTournament[tournamentID] = dists
}

func (f *fakePrizeRepo) ReplaceForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, distributions []*models.PrizeDistribution) error {
	for _, d := range distributions {
		d.TournamentID = tournamentID
	}
	f.byTournament[tournamentID] = distributions
	return nil
}

func (f *fakePrizeRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.PrizeDistribution, error) {
	return f.byTournament[tournamentID], nil
}

func (f *fakePrizeRepo) GetByTournamentAndRank(ctx context.Context, exec repositories.SQLExecutor, tournamentID, rank int) (*models.PrizeDistribution, error) {
	for _, d := range f.byTournament[tournamentID] {
		if d.Rank == rank {
			return d, nil
		}
	}
	return nil, repositories.ErrPrizeNotFound
}

type fakeWithdrawalRepo struct {
	withdrawals map[uuid.UUID]*models.Withdrawal
}

func newFakeWithdrawalRepo() *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{withdrawals: make(map[uuid.UUID]*models.Withdrawal)}
}

func (f *fakeWithdrawalRepo) Create(ctx context.Context, exec repositories.SQLExecutor, w *models.Withdrawal) error {
	w.RequestedAt = time.Now()
	f.withdrawals[w.ID] = w
	return nil
}

func (f *fakeWithdrawalRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Withdrawal, error) {
	w, ok := f.withdrawals[id]
	if !ok {
		return nil, repositories.ErrWithdrawalNotFound
	}
	return w, nil
}

func (f *fakeWithdrawalRepo) Transition(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, from, to models.WithdrawalStatus, adminNote, payoutID *string) error {
	w, ok := f.withdrawals[id]
	if !ok {
		return repositories.ErrWithdrawalNotFound
	}
	if w.Status != from {
		return repositories.ErrWithdrawalProcessed
	}
	w.Status = to
	if adminNote != nil {
		w.AdminNote = adminNote
	}
	if payoutID != nil {
		w.PayoutID = payoutID
	}
	return nil
}

func (f *fakeWithdrawalRepo) ListByProfile(ctx context.Context, profileID int) ([]*models.Withdrawal, error) {
	out := make([]*models.Withdrawal, 0)
	for _, w := range f.withdrawals {
		if w.ProfileID == profileID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWithdrawalRepo) ListAll(ctx context.Context) ([]*models.Withdrawal, error) {
	out := make([]*models.Withdrawal, 0, len(f.withdrawals))
	for _, w := range f.withdrawals {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWithdrawalRepo) CountPending(ctx context.Context) (int, error) {
	count := 0
	for _, w := range f.withdrawals {
		if w.Status == models.WithdrawalPending {
			count++
		}
	}
	return count, nil
}

type fakeDepositRepo struct {
	deposits map[uuid.UUID]*models.Deposit
}

func newFakeDepositRepo() *fakeDepositRepo {
	return &fakeDepositRepo{deposits: make(map[uuid.UUID]*models.Deposit)}
}

func (f *fakeDepositRepo) Create(ctx context.Context, exec repositories.SQLExecutor, d *models.Deposit) error {
	for _, existing := range f.deposits {
		if existing.UTRNumber == d.UTRNumber {
			return repositories.ErrDepositUTRConflict
		}
	}
	d.CreatedAt = time.Now()
	f.deposits[d.ID] = d
	return nil
}

func (f *fakeDepositRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Deposit, error) {
	d, ok := f.deposits[id]
	if !ok {
		return nil, repositories.ErrDepositNotFound
	}
	return d, nil
}

func (f *fakeDepositRepo) Transition(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, to models.DepositStatus, adminNote *string) error {
	d, ok := f.deposits[id]
	if !ok {
		return repositories.ErrDepositNotFound
	}
	if d.Status != models.DepositPending {
		return repositories.ErrDepositProcessed
	}
	d.Status = to
	if adminNote != nil {
		d.AdminNote = adminNote
	}
	return nil
}

func (f *fakeDepositRepo) ListPending(ctx context.Context) ([]*models.Deposit, error) {
	out := make([]*models.Deposit, 0)
	for _, d := range f.deposits {
		if d.Status == models.DepositPending {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDepositRepo) CountPending(ctx context.Context) (int, error) {
	pending, _ := f.ListPending(ctx)
	return len(pending), nil
}

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	return len(f.users), nil
}

type fakeSiteConfigRepo struct{}

func (fakeSiteConfigRepo) Get(ctx context.Context) (*models.SiteConfiguration, error) {
	return &models.SiteConfiguration{ID: 1, UPIID: "payments@upi", WhatsAppNumber: "+910000000000"}, nil
}

// fakeNotifier records events so tests can assert a notification fired
// after the commit.
type fakeNotifier struct {
	statusChanges []models.RoomStatus
	payoutCounts  []int
}

func (f *fakeNotifier) RoomStatusChanged(roomID uuid.UUID, status models.RoomStatus) {
	f.statusChanges = append(f.statusChanges, status)
}

func (f *fakeNotifier) PayoutsApproved(roomID uuid.UUID, count int) {
	f.payoutCounts = append(f.payoutCounts, count)
}

type fakeGateway struct {
	orders     int
	orderErr   error
	validSig   bool
	lastAmount decimal.Decimal
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	if f.orderErr != nil {
		return "", f.orderErr
	}
	f.orders++
	f.lastAmount = amount
	return fmt.Sprintf("order_%d", f.orders), nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return f.validSig
}

var _ payments.Gateway = (*fakeGateway)(nil)

type fakeUploader struct {
	uploads   []string
	deletes   []string
	uploadErr error
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
