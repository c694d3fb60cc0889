package models

import (
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomStatusOpen      RoomStatus = "open"
	RoomStatusFull      RoomStatus = "full"
	RoomStatusCancelled RoomStatus = "cancelled"
	RoomStatusStarted   RoomStatus = "started"
	RoomStatusCompleted RoomStatus = "completed"
)

type PaymentType string

const (
	PaymentLeaderPaysAll PaymentType = "leader_pays_all"
	PaymentSplitEqually  PaymentType = "split_equally"
)

// Room is the single match session tied 1:1 to a tournament. Status
// moves open -> full -> started -> completed; cancellation is terminal
// from any state before completed.
type Room struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	OwnerID     *int        `json:"owner_id,omitempty" db:"owner_id"`
	Status      RoomStatus  `json:"status" db:"status"`
	PaymentType PaymentType `json:"payment_type" db:"payment_type"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`

	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}

// CanTransitionTo reports whether the status change is allowed by the
// room state machine.
func (r *Room) CanTransitionTo(next RoomStatus) bool {
	if r.Status == next {
		return false
	}
	switch next {
	case RoomStatusFull:
		return r.Status == RoomStatusOpen
	case RoomStatusStarted:
		return r.Status == RoomStatusOpen || r.Status == RoomStatusFull
	case RoomStatusCompleted:
		return r.Status == RoomStatusStarted || r.Status == RoomStatusFull || r.Status == RoomStatusOpen
	case RoomStatusCancelled:
		return r.Status != RoomStatusCompleted
	default:
		return false
	}
}
