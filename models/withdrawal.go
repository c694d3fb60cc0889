package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
	WithdrawalPaid     WithdrawalStatus = "paid"
)

// Withdrawal is an outbound payout request. A pending withdrawal
// reserves nothing; the balance is deducted at approval time.
type Withdrawal struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	ProfileID   int              `json:"profile_id" db:"profile_id"`
	Amount      decimal.Decimal  `json:"amount" db:"amount"`
	Status      WithdrawalStatus `json:"status" db:"status"`
	UPIID       *string          `json:"upi_id,omitempty" db:"upi_id"`
	BankDetails *string          `json:"bank_details,omitempty" db:"bank_details"`
	PayoutID    *string          `json:"payout_id,omitempty" db:"payout_id"`
	AdminNote   *string          `json:"admin_note,omitempty" db:"admin_note"`
	RequestedAt time.Time        `json:"requested_at" db:"requested_at"`
}
