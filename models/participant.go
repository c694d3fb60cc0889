package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomParticipant is a user's committed membership in a room, with
// payment attribution. One row per (room, user); rows are never
// deleted, only superseded by room status changes.
//
// TeamLeaderID is a non-owning back-reference to the leader's user id
// (set null on user deletion).
type RoomParticipant struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	RoomID           uuid.UUID       `json:"room_id" db:"room_id"`
	UserID           int             `json:"user_id" db:"user_id"`
	JoinedAt         time.Time       `json:"joined_at" db:"joined_at"`
	Paid             bool            `json:"paid" db:"paid"`
	TeamLeaderID     *int            `json:"team_leader_id,omitempty" db:"team_leader_id"`
	IsTeamLeader     bool            `json:"is_team_leader" db:"is_team_leader"`
	PaymentShare     decimal.Decimal `json:"payment_share" db:"payment_share"`
	GatewayOrderID   *string         `json:"-" db:"gateway_order_id"`
	GatewayPaymentID *string         `json:"-" db:"gateway_payment_id"`

	User *User `json:"user,omitempty" db:"-"`
}
