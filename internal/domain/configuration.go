package domain

// Lookup categories served by the generic configuration table.
const (
	CategoryICTSITransactionType = "ICTSI_TRANSACTION_TYPE"
	CategoryJobStatus            = "JOB_STATUS"
	CategoryRefundStatus         = "REFUND_STATUS"
	CategoryPaymentMode          = "PAYMENT_MODE"
)

// ConfigurationOption is one row of a server-side lookup table.
type ConfigurationOption struct {
	OptionID int64  `json:"optionId" validate:"required"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	IsActive bool   `json:"isActive"`
}

// ChargeCategory groups charge subcategories.
type ChargeCategory struct {
	CategoryID int64  `json:"chargeCategoryId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	IsActive   bool   `json:"isActive"`
}

// ChargeSubcategory is the billable line type a charge belongs to.
type ChargeSubcategory struct {
	SubcategoryID int64  `json:"chargeSubcategoryId" validate:"required"`
	CategoryID    int64  `json:"chargeCategoryId"`
	Name          string `json:"name" validate:"required"`
	IsActive      bool   `json:"isActive"`
}

// ChargeStatus is a lifecycle state of a charge transaction.
type ChargeStatus struct {
	StatusID int64  `json:"chargeStatusId" validate:"required"`
	Name     string `json:"name" validate:"required"`
}
