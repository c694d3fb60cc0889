package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Service-level sentinels. Repository sentinels (not-found, conflict)
// pass through unchanged; these cover the precondition and validation
// failures the repositories cannot see.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrForbidden     = errors.New("operation requires staff privileges")

	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrTournamentInactive = errors.New("tournament is not active")
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrTournamentFull     = errors.New("tournament has reached max participants")

	ErrRoomNotOpen             = errors.New("room is not open for joining")
	ErrInvalidStatusTransition = errors.New("room status transition not allowed")
	ErrAlreadyJoined           = errors.New("user already joined this room")
	ErrTeamFull                = errors.New("team has reached its size")

	ErrNotTeamTournament    = errors.New("tournament does not use teams")
	ErrInviteeCountInvalid  = errors.New("invitee count does not match team size")
	ErrSelfInvite           = errors.New("cannot invite your own identifier")
	ErrGameIDNotVerified    = errors.New("game identifier is not verified")
	ErrInvitationNotForUser = errors.New("invitation does not belong to this user")

	ErrIdentifierTaken = errors.New("identifier already registered by another user")

	ErrPaymentVerificationFailed = errors.New("payment signature verification failed")
)

// InsufficientFundsError carries the amounts so callers can report
// required vs available. It unwraps to ErrInsufficientFunds.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
