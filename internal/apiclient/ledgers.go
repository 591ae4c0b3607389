package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Ledgers reads and writes the resource and ICTSI credit pools.
type Ledgers struct {
	client  *Client
	lookups *Lookups
}

// NewLedgers binds the ledger endpoints to client.
func NewLedgers(client *Client) *Ledgers {
	return &Ledgers{client: client, lookups: NewLookups(client)}
}

// Each kind names its ids differently on the wire; both shapes decode into
// the same records and are folded into the domain types.
type accountWire struct {
	ResourceID    int64           `json:"resourceId"`
	ICTSIID       int64           `json:"ictsiId"`
	ResourceGUID  string          `json:"resourceGuid"`
	ICTSIGUID     string          `json:"ictsiGuid"`
	ResourceName  string          `json:"resourceName"`
	Name          string          `json:"name"`
	AddedAmount   decimal.Decimal `json:"addedAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	IsActive      bool            `json:"isActive"`
}

func (w accountWire) toDomain() domain.LedgerAccount {
	return domain.LedgerAccount{
		AccountID:     firstID(w.ResourceID, w.ICTSIID),
		AccountGUID:   firstString(w.ResourceGUID, w.ICTSIGUID),
		Name:          firstString(w.ResourceName, w.Name),
		AddedAmount:   w.AddedAmount,
		CurrentAmount: w.CurrentAmount,
		IsActive:      w.IsActive,
	}
}

type transactionWire struct {
	ResourceTransactionID int64           `json:"resourceTransactionId"`
	ICTSITransactionID    int64           `json:"ictsiTransactionId"`
	ResourceID            int64           `json:"resourceId"`
	ICTSIID               int64           `json:"ictsiId"`
	TransactionTypeID     int64           `json:"transactionTypeId" validate:"required"`
	Amount                decimal.Decimal `json:"amount"`
	BalanceBefore         decimal.Decimal `json:"balanceBefore"`
	BalanceAfter          decimal.Decimal `json:"balanceAfter"`
	ReferenceNumber       *string         `json:"referenceNumber"`
	Notes                 *string         `json:"notes"`
	CreatedAt             time.Time       `json:"createdAt"`
	IsActive              bool            `json:"isActive"`
}

func (w transactionWire) toDomain() domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID:     firstID(w.ResourceTransactionID, w.ICTSITransactionID),
		AccountID:         firstID(w.ResourceID, w.ICTSIID),
		TransactionTypeID: w.TransactionTypeID,
		Amount:            w.Amount,
		BalanceBefore:     w.BalanceBefore,
		BalanceAfter:      w.BalanceAfter,
		ReferenceNumber:   w.ReferenceNumber,
		Notes:             w.Notes,
		CreatedAt:         w.CreatedAt,
		IsActive:          w.IsActive,
	}
}

type transactionTypeWire struct {
	TransactionTypeID int64  `json:"transactionTypeId" validate:"required"`
	Name              string `json:"name"`
	Value             string `json:"value"`
	IsActive          bool   `json:"isActive"`
}

// Accounts lists the accounts of kind.
func (l *Ledgers) Accounts(ctx context.Context, kind domain.LedgerKind) ([]domain.LedgerAccount, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown ledger kind %q", kind)
	}
	var wire []accountWire
	if err := l.client.call(ctx, http.MethodGet, string(kind), nil, nil, &wire); err != nil {
		return nil, err
	}
	accounts := make([]domain.LedgerAccount, 0, len(wire))
	for _, w := range wire {
		accounts = append(accounts, w.toDomain())
	}
	return accounts, nil
}

// Account fetches one account.
func (l *Ledgers) Account(ctx context.Context, kind domain.LedgerKind, id int64) (domain.LedgerAccount, error) {
	if !kind.Valid() {
		return domain.LedgerAccount{}, fmt.Errorf("unknown ledger kind %q", kind)
	}
	var wire accountWire
	if err := l.client.call(ctx, http.MethodGet, string(kind)+"/"+strconv.FormatInt(id, 10), nil, nil, &wire); err != nil {
		return domain.LedgerAccount{}, err
	}
	return wire.toDomain(), nil
}

// Transactions lists the movements of one account in server order.
func (l *Ledgers) Transactions(ctx context.Context, kind domain.LedgerKind, accountID int64) ([]domain.LedgerTransaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown ledger kind %q", kind)
	}
	query := url.Values{accountKey(kind): {strconv.FormatInt(accountID, 10)}}
	var wire []transactionWire
	if err := l.client.call(ctx, http.MethodGet, string(kind)+"/transactions", query, nil, &wire); err != nil {
		return nil, err
	}
	txs := make([]domain.LedgerTransaction, 0, len(wire))
	for _, w := range wire {
		txs = append(txs, w.toDomain())
	}
	return txs, nil
}

// TransactionTypes returns the type table used to classify movements.
// Resource types have their own endpoint; ICTSI types live in configuration.
func (l *Ledgers) TransactionTypes(ctx context.Context, kind domain.LedgerKind) ([]domain.ConfigurationOption, error) {
	switch kind {
	case domain.LedgerKindICTSI:
		return l.lookups.Configuration(ctx, domain.CategoryICTSITransactionType)
	case domain.LedgerKindResource:
		var wire []transactionTypeWire
		if err := l.client.call(ctx, http.MethodGet, "resource/transaction-types", nil, nil, &wire); err != nil {
			return nil, err
		}
		options := make([]domain.ConfigurationOption, 0, len(wire))
		for _, w := range wire {
			options = append(options, domain.ConfigurationOption{
				OptionID: w.TransactionTypeID,
				Category: "RESOURCE_TRANSACTION_TYPE",
				Name:     w.Name,
				Value:    w.Value,
				IsActive: w.IsActive,
			})
		}
		return options, nil
	default:
		return nil, fmt.Errorf("unknown ledger kind %q", kind)
	}
}

// CreateTransaction records a movement and returns the stored row.
func (l *Ledgers) CreateTransaction(ctx context.Context, kind domain.LedgerKind, tx domain.NewLedgerTransaction) (domain.LedgerTransaction, error) {
	if !kind.Valid() {
		return domain.LedgerTransaction{}, fmt.Errorf("unknown ledger kind %q", kind)
	}
	body := map[string]any{
		accountKey(kind):    tx.AccountID,
		"transactionTypeId": tx.TransactionTypeID,
		"amount":            tx.Amount,
	}
	if tx.ReferenceNumber != nil {
		body["referenceNumber"] = *tx.ReferenceNumber
	}
	if tx.Notes != nil {
		body["notes"] = *tx.Notes
	}
	var wire transactionWire
	if err := l.client.call(ctx, http.MethodPost, string(kind)+"/transactions", nil, body, &wire); err != nil {
		return domain.LedgerTransaction{}, err
	}
	return wire.toDomain(), nil
}

func accountKey(kind domain.LedgerKind) string {
	if kind == domain.LedgerKindICTSI {
		return "ictsiId"
	}
	return "resourceId"
}

func firstID(ids ...int64) int64 {
	for _, id := range ids {
		if id != 0 {
			return id
		}
	}
	return 0
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
