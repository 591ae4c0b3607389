package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund returns money to an agency for a job.
type Refund struct {
	RefundID  int64           `json:"refundId"`
	JobID     int64           `json:"jobId" validate:"required"`
	AgencyID  int64           `json:"agencyId"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason" validate:"required"`
	StatusID  int64           `json:"statusId"`
	CreatedAt time.Time       `json:"createdAt"`
	IsActive  bool            `json:"isActive"`
}
