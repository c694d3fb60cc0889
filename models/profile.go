package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// VerificationSection is the closed set of independently reviewed
// profile sections.
type VerificationSection string

const (
	SectionKYC     VerificationSection = "kyc"
	SectionGameID  VerificationSection = "game_id"
	SectionPayment VerificationSection = "payment"
)

// Profile is the per-user wallet and player identity. Exactly one
// exists per user; the player UUID is generated once at construction
// and never reassigned.
type Profile struct {
	ID         int             `json:"id" db:"id"`
	UserID     int             `json:"user_id" db:"user_id"`
	PlayerUUID uuid.UUID       `json:"player_uuid" db:"player_uuid"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`

	// In-game identifiers. GameID is the legacy field kept for
	// invitations issued before the per-game ids existed.
	BGMIID     *string `json:"bgmi_id,omitempty" db:"bgmi_id"`
	FreeFireID *string `json:"freefire_id,omitempty" db:"freefire_id"`
	FIFAID     *string `json:"fifa_id,omitempty" db:"fifa_id"`
	GameID     *string `json:"game_id,omitempty" db:"game_id"`

	GameIDVerified        bool               `json:"game_id_verified" db:"game_id_verified"`
	GameIDStatus          VerificationStatus `json:"game_id_status" db:"game_id_status"`
	GameIDRejectionReason *string            `json:"game_id_rejection_reason,omitempty" db:"game_id_rejection_reason"`

	KYCStatus          VerificationStatus `json:"kyc_status" db:"kyc_status"`
	KYCFullName        *string            `json:"kyc_full_name,omitempty" db:"kyc_full_name"`
	KYCIDType          *string            `json:"kyc_id_type,omitempty" db:"kyc_id_type"`
	KYCIDNumber        *string            `json:"kyc_id_number,omitempty" db:"kyc_id_number"`
	KYCDocumentKey     *string            `json:"-" db:"kyc_document_key"`
	KYCRejectionReason *string            `json:"kyc_rejection_reason,omitempty" db:"kyc_rejection_reason"`

	BankName      *string `json:"bank_name,omitempty" db:"bank_name"`
	AccountNumber *string `json:"account_number,omitempty" db:"account_number"`
	IFSCCode      *string `json:"ifsc_code,omitempty" db:"ifsc_code"`
	UPIID         *string `json:"upi_id,omitempty" db:"upi_id"`

	PaymentDetailsStatus          VerificationStatus `json:"payment_details_status" db:"payment_details_status"`
	PaymentDetailsRejectionReason *string            `json:"payment_details_rejection_reason,omitempty" db:"payment_details_rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewProfile is the only way to build a profile: creating an identity
// always yields exactly one wallet with a fresh player UUID.
func NewProfile(userID int) *Profile {
	return &Profile{
		UserID:               userID,
		PlayerUUID:           uuid.New(),
		Balance:              decimal.Zero,
		GameIDStatus:         VerificationPending,
		KYCStatus:            VerificationPending,
		PaymentDetailsStatus: VerificationPending,
	}
}

// GameIdentifiers returns every identifier this player can be invited
// by. It is the single source of truth for invitation matching and
// acceptance authorization.
func (p *Profile) GameIdentifiers() []string {
	ids := make([]string, 0, 4)
	for _, field := range []*string{p.BGMIID, p.FreeFireID, p.FIFAID, p.GameID} {
		if field != nil && *field != "" {
			ids = append(ids, *field)
		}
	}
	return ids
}

// OwnsIdentifier reports whether gameID belongs to this player.
func (p *Profile) OwnsIdentifier(gameID string) bool {
	for _, id := range p.GameIdentifiers() {
		if id == gameID {
			return true
		}
	}
	return false
}
