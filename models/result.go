package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "pending"
	PayoutApproved PayoutStatus = "approved"
	PayoutPaid     PayoutStatus = "paid"
	PayoutRejected PayoutStatus = "rejected"
)

// RoomResult records a participant's final rank and the prize computed
// from the tournament's prize table. One row per (room, participant).
// PrizeAmount is immutable once the payout has been paid.
type RoomResult struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	RoomID        uuid.UUID       `json:"room_id" db:"room_id"`
	ParticipantID uuid.UUID       `json:"participant_id" db:"participant_id"`
	Rank          int             `json:"rank" db:"rank"`
	PrizeAmount   decimal.Decimal `json:"prize_amount" db:"prize_amount"`
	PayoutStatus  PayoutStatus    `json:"payout_status" db:"payout_status"`
	ApprovedBy    *int            `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	Participant *RoomParticipant `json:"participant,omitempty" db:"-"`
}
