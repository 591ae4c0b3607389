package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge is a charge transaction raised against a job.
type Charge struct {
	ChargeID      int64           `json:"chargeId"`
	JobID         int64           `json:"jobId" validate:"required"`
	SubcategoryID int64           `json:"chargeSubcategoryId" validate:"required"`
	StatusID      int64           `json:"chargeStatusId"`
	Amount        decimal.Decimal `json:"amount"`
	ORNumber      string          `json:"orNumber,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	IsActive      bool            `json:"isActive"`
}
