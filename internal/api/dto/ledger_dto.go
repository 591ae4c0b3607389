package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/freight-console/internal/domain"
)

// CreateLedgerTransactionRequest payload for recording a movement.
type CreateLedgerTransactionRequest struct {
	AccountID         int64           `json:"accountId" validate:"required,gt=0"`
	TransactionTypeID int64           `json:"transactionTypeId" validate:"required,gt=0"`
	Amount            decimal.Decimal `json:"amount"`
	ReferenceNumber   *string         `json:"referenceNumber" validate:"omitempty,max=64"`
	Notes             *string         `json:"notes" validate:"omitempty,max=500"`
}

// ToDomain converts the request.
func (r CreateLedgerTransactionRequest) ToDomain() domain.NewLedgerTransaction {
	return domain.NewLedgerTransaction{
		AccountID:         r.AccountID,
		TransactionTypeID: r.TransactionTypeID,
		Amount:            r.Amount,
		ReferenceNumber:   r.ReferenceNumber,
		Notes:             r.Notes,
	}
}
