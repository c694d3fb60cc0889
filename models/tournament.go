package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GameType string

const (
	GameFIFA     GameType = "fifa"
	GameBGMI     GameType = "bgmi"
	GameFreeFire GameType = "freefire"
)

type TeamMode string

const (
	TeamModeSolo  TeamMode = "solo"
	TeamModeDuo   TeamMode = "duo"
	TeamModeSquad TeamMode = "squad"
)

// Tournament is the static catalog entry a room is created for.
// Configuration is immutable after creation.
type Tournament struct {
	ID                   int             `json:"id" db:"id"`
	Name                 string          `json:"name" db:"name"`
	Game                 GameType        `json:"game" db:"game"`
	EntryFee             decimal.Decimal `json:"entry_fee" db:"entry_fee"`
	TeamMode             TeamMode        `json:"team_mode" db:"team_mode"`
	MaxParticipants      int             `json:"max_participants" db:"max_participants"`
	RegistrationDeadline *time.Time      `json:"registration_deadline,omitempty" db:"registration_deadline"`
	StartTime            *time.Time      `json:"start_time,omitempty" db:"start_time"`
	CreatedBy            *int            `json:"created_by,omitempty" db:"created_by"`
	IsActive             bool            `json:"is_active" db:"is_active"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

// TeamSize maps the team mode to the number of players per team.
func (t *Tournament) TeamSize() int {
	switch t.TeamMode {
	case TeamModeDuo:
		return 2
	case TeamModeSquad:
		return 4
	default:
		return 1
	}
}

// EntryShare is the per-player share of the entry fee, rounded to two
// fraction digits.
func (t *Tournament) EntryShare() decimal.Decimal {
	return t.EntryFee.DivRound(decimal.NewFromInt(int64(t.TeamSize())), 2)
}
