package ledger

import "github.com/spec-kit/freight-console/internal/domain"

// DebitMarker is the configuration value the back office uses for debit types.
const DebitMarker = "DEBIT"

// TypeClassifier answers whether a transaction type moves money out.
type TypeClassifier interface {
	IsDebit(typeID int64) bool
}

// TypeTable classifies transaction types from server-supplied configuration rows.
// Deactivated rows still classify: historic transactions keep their type.
type TypeTable struct {
	values map[int64]string
	loaded bool
}

// NewTypeTable indexes options by id.
func NewTypeTable(options []domain.ConfigurationOption) *TypeTable {
	values := make(map[int64]string, len(options))
	for _, opt := range options {
		values[opt.OptionID] = opt.Value
	}
	return &TypeTable{values: values, loaded: true}
}

// UnloadedTypeTable stands in until the lookup resolves. Every type reads as credit.
func UnloadedTypeTable() *TypeTable {
	return &TypeTable{}
}

// Loaded reports whether classifications are final.
func (t *TypeTable) Loaded() bool {
	return t != nil && t.loaded
}

// IsDebit matches the debit marker exactly. Unknown ids are credits.
func (t *TypeTable) IsDebit(typeID int64) bool {
	if t == nil {
		return false
	}
	return t.values[typeID] == DebitMarker
}

// Classify maps a type id to a direction. A nil classifier yields credit.
func Classify(typeID int64, classifier TypeClassifier) domain.Direction {
	if classifier != nil && classifier.IsDebit(typeID) {
		return domain.DirectionDebit
	}
	return domain.DirectionCredit
}
