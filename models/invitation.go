package models

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationExpired  InvitationStatus = "expired"
)

// TeamInvitation binds a leader and an invited in-game identifier to a
// room. Pending is the only mutable state; transitions out of it are
// one-way and final. InviteeUserID is resolved lazily: at creation if
// the identifier matches a known profile, otherwise at acceptance.
type TeamInvitation struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	RoomID        uuid.UUID        `json:"room_id" db:"room_id"`
	InviterID     int              `json:"inviter_id" db:"inviter_id"`
	InviteeGameID string           `json:"invitee_game_id" db:"invitee_game_id"`
	InviteeUserID *int             `json:"invitee_user_id,omitempty" db:"invitee_user_id"`
	Status        InvitationStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}
