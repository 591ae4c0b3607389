package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PettyCashEntry is one row of the petty-cash report.
type PettyCashEntry struct {
	Date        time.Time       `json:"date"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	CashIn      decimal.Decimal `json:"cashIn"`
	CashOut     decimal.Decimal `json:"cashOut"`
	Balance     decimal.Decimal `json:"balance"`
}

// PettyCashReport is the petty-cash statement for a period.
type PettyCashReport struct {
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	ClosingBalance decimal.Decimal  `json:"closingBalance"`
	Entries        []PettyCashEntry `json:"entries"`
}
