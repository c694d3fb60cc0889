package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrizeDistribution maps a final rank to a fixed prize amount.
// Ranks are unique per tournament.
type PrizeDistribution struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	Rank         int             `json:"rank" db:"rank"`
	PrizeAmount  decimal.Decimal `json:"prize_amount" db:"prize_amount"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
