package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind names a balance-tracking entity exposed by the back office.
type LedgerKind string

const (
	LedgerKindResource LedgerKind = "resource"
	LedgerKindICTSI    LedgerKind = "ictsi"
)

// Valid reports whether the kind is one the console knows how to fetch.
func (k LedgerKind) Valid() bool {
	return k == LedgerKindResource || k == LedgerKindICTSI
}

// Direction classifies a ledger transaction.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// LedgerAccount is a credit pool (resource or ICTSI).
// CurrentAmount is the single source of truth for the remaining balance.
type LedgerAccount struct {
	AccountID     int64           `json:"accountId"`
	AccountGUID   string          `json:"accountGuid"`
	Name          string          `json:"name"`
	AddedAmount   decimal.Decimal `json:"addedAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	IsActive      bool            `json:"isActive"`
}

// UsedAmount is always derived, never stored.
func (a LedgerAccount) UsedAmount() decimal.Decimal {
	return a.AddedAmount.Sub(a.CurrentAmount)
}

// LedgerTransaction is one movement against a ledger account.
type LedgerTransaction struct {
	TransactionID     int64           `json:"transactionId"`
	AccountID         int64           `json:"accountId"`
	TransactionTypeID int64           `json:"transactionTypeId"`
	Amount            decimal.Decimal `json:"amount"`
	BalanceBefore     decimal.Decimal `json:"balanceBefore"`
	BalanceAfter      decimal.Decimal `json:"balanceAfter"`
	ReferenceNumber   *string         `json:"referenceNumber,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	IsActive          bool            `json:"isActive"`
}

// NewLedgerTransaction is the payload for recording a movement.
type NewLedgerTransaction struct {
	AccountID         int64           `json:"accountId" validate:"required"`
	TransactionTypeID int64           `json:"transactionTypeId" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
	ReferenceNumber   *string         `json:"referenceNumber,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}
