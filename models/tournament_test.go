package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTeamSize(t *testing.T) {
	cases := map[TeamMode]int{
		TeamModeSolo:  1,
		TeamModeDuo:   2,
		TeamModeSquad: 4,
	}
	for mode, want := range cases {
		tournament := &Tournament{TeamMode: mode}
		if got := tournament.TeamSize(); got != want {
			t.Errorf("%s: expected team size %d, got %d", mode, want, got)
		}
	}
}

func TestEntryShareRounding(t *testing.T) {
	cases := []struct {
		fee  string
		mode TeamMode
		want string
	}{
		{"100", TeamModeSolo, "100"},
		{"100", TeamModeDuo, "50"},
		{"100", TeamModeSquad, "25"},
		{"25", TeamModeSquad, "6.25"},
		{"99.99", TeamModeDuo, "50"},
	}
	for _, tc := range cases {
		fee, _ := decimal.NewFromString(tc.fee)
		want, _ := decimal.NewFromString(tc.want)
		tournament := &Tournament{EntryFee: fee, TeamMode: tc.mode}
		if got := tournament.EntryShare(); !got.Equal(want) {
			t.Errorf("fee %s %s: expected share %s, got %s", tc.fee, tc.mode, want, got)
		}
	}
}
