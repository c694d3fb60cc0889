package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/shopspring/decimal"
)

type tournamentFixture struct {
	tournaments  *fakeTournamentRepo
	rooms        *fakeRoomRepo
	prizes       *fakePrizeRepo
	participants *fakeParticipantRepo
	svc          TournamentService
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	rooms := newFakeRoomRepo()
	f := &tournamentFixture{
		tournaments:  newFakeTournamentRepo(),
		rooms:        rooms,
		prizes:       newFakePrizeRepo(),
		participants: &fakeParticipantRepo{rooms: rooms},
	}
	f.svc = NewTournamentService(newTestDB(t), f.tournaments, f.rooms, f.prizes, f.participants, testLogger())
	return f
}

func TestCreateTournamentAlsoCreatesRoom(t *testing.T) {
	f := newTournamentFixture(t)

	tournament, room, err := f.svc.Create(context.Background(), 9, CreateTournamentInput{
		Name:            "Weekend Clash",
		Game:            models.GameBGMI,
		EntryFee:        decimal.NewFromInt(50),
		TeamMode:        models.TeamModeDuo,
		MaxParticipants: 8,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !tournament.IsActive {
		t.Fatal("new tournaments start active")
	}
	if room.TournamentID != tournament.ID {
		t.Fatalf("expected room bound to tournament %d, got %d", tournament.ID, room.TournamentID)
	}
	if room.Status != models.RoomStatusOpen {
		t.Fatalf("expected open room, got %s", room.Status)
	}
	// Payment type defaults when unset.
	if room.PaymentType != models.PaymentLeaderPaysAll {
		t.Fatalf("expected leader_pays_all default, got %s", room.PaymentType)
	}

	stored, err := f.rooms.GetByTournamentID(context.Background(), nil, tournament.ID)
	if err != nil {
		t.Fatalf("room not persisted: %v", err)
	}
	if stored.ID != room.ID {
		t.Fatalf("expected persisted room %s, got %s", room.ID, stored.ID)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()

	valid := CreateTournamentInput{
		Name:            "Weekend Clash",
		Game:            models.GameFIFA,
		EntryFee:        decimal.NewFromInt(50),
		TeamMode:        models.TeamModeSolo,
		MaxParticipants: 4,
	}

	cases := map[string]func(in CreateTournamentInput) CreateTournamentInput{
		"empty name":         func(in CreateTournamentInput) CreateTournamentInput { in.Name = ""; return in },
		"unknown game":       func(in CreateTournamentInput) CreateTournamentInput { in.Game = "chess"; return in },
		"unknown team mode":  func(in CreateTournamentInput) CreateTournamentInput { in.TeamMode = "trio"; return in },
		"negative entry fee": func(in CreateTournamentInput) CreateTournamentInput { in.EntryFee = decimal.NewFromInt(-1); return in },
		"zero capacity":      func(in CreateTournamentInput) CreateTournamentInput { in.MaxParticipants = 0; return in },
		"bad payment type":   func(in CreateTournamentInput) CreateTournamentInput { in.PaymentType = "house_pays"; return in },
	}
	for name, mutate := range cases {
		if _, _, err := f.svc.Create(ctx, 9, mutate(valid)); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestSetPrizeDistribution(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()

	tournament, _, err := f.svc.Create(ctx, 9, CreateTournamentInput{
		Name:            "Weekend Clash",
		Game:            models.GameFIFA,
		EntryFee:        decimal.NewFromInt(50),
		TeamMode:        models.TeamModeSolo,
		MaxParticipants: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dists, err := f.svc.SetPrizeDistribution(ctx, tournament.ID, []PrizeInput{
		{Rank: 1, PrizeAmount: decimal.NewFromInt(120)},
		{Rank: 2, PrizeAmount: decimal.NewFromInt(60)},
	})
	if err != nil {
		t.Fatalf("set prizes: %v", err)
	}
	if len(dists) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(dists))
	}

	stored, err := f.svc.GetPrizeDistribution(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("get prizes: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored distributions, got %d", len(stored))
	}

	if _, err := f.svc.SetPrizeDistribution(ctx, tournament.ID, []PrizeInput{
		{Rank: 1, PrizeAmount: decimal.NewFromInt(10)},
		{Rank: 1, PrizeAmount: decimal.NewFromInt(20)},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate ranks, got %v", err)
	}
	if _, err := f.svc.SetPrizeDistribution(ctx, 999, []PrizeInput{{Rank: 1, PrizeAmount: decimal.NewFromInt(10)}}); !errors.Is(err, repositories.ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestTournamentParticipantsWithoutRoom(t *testing.T) {
	f := newTournamentFixture(t)

	// A tournament whose room is missing reports an empty roster, not
	// an error.
	participants, err := f.svc.Participants(context.Background(), 42)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(participants) != 0 {
		t.Fatalf("expected empty roster, got %d", len(participants))
	}
}

func TestSetActiveTogglesListing(t *testing.T) {
	f := newTournamentFixture(t)
	ctx := context.Background()

	tournament, _, err := f.svc.Create(ctx, 9, CreateTournamentInput{
		Name:            "Weekend Clash",
		Game:            models.GameFIFA,
		EntryFee:        decimal.NewFromInt(50),
		TeamMode:        models.TeamModeSolo,
		MaxParticipants: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.SetActive(ctx, tournament.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}

	active, err := f.svc.List(ctx, repositories.ListTournamentsFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active tournaments, got %d", len(active))
	}
}
