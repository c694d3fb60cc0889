package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// WalletTransaction is an append-only ledger entry. The sum of a
// profile's entries (credits minus debits) equals its balance after
// every committed operation.
type WalletTransaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProfileID int             `json:"profile_id" db:"profile_id"`
	Type      TransactionType `json:"tx_type" db:"tx_type"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Note      string          `json:"note" db:"note"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
