package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
)

// Deposit is a user's claim that an external transfer (referenced by
// its UTR number) was made. The UTR is unique so a retried claim fails
// instead of double-crediting.
type Deposit struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProfileID int             `json:"profile_id" db:"profile_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	UTRNumber string          `json:"utr_number" db:"utr_number"`
	Status    DepositStatus   `json:"status" db:"status"`
	AdminNote *string         `json:"admin_note,omitempty" db:"admin_note"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
