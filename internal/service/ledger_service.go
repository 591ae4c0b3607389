package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/ledger"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// LedgerSource is the back-office surface the ledger screens read from.
type LedgerSource interface {
	Accounts(ctx context.Context, kind domain.LedgerKind) ([]domain.LedgerAccount, error)
	Account(ctx context.Context, kind domain.LedgerKind, id int64) (domain.LedgerAccount, error)
	Transactions(ctx context.Context, kind domain.LedgerKind, accountID int64) ([]domain.LedgerTransaction, error)
	TransactionTypes(ctx context.Context, kind domain.LedgerKind) ([]domain.ConfigurationOption, error)
	CreateTransaction(ctx context.Context, kind domain.LedgerKind, tx domain.NewLedgerTransaction) (domain.LedgerTransaction, error)
}

// AccountView is an account with its derived used amount.
type AccountView struct {
	domain.LedgerAccount
	UsedAmount decimal.Decimal `json:"usedAmount"`
}

// LedgerOverview lists the accounts of one kind with totals.
type LedgerOverview struct {
	Kind     domain.LedgerKind    `json:"kind"`
	Accounts []AccountView        `json:"accounts"`
	Totals   ledger.AccountTotals `json:"totals"`
}

// StatementEntry is a transaction as shown on a statement.
type StatementEntry struct {
	domain.LedgerTransaction
	Direction      domain.Direction `json:"direction"`
	RunningBalance decimal.Decimal  `json:"runningBalance"`
}

// Statement is the movement history of one account.
// Provisional is set when the type table could not be loaded and every row
// was classified as credit.
type Statement struct {
	Kind         domain.LedgerKind `json:"kind"`
	Account      AccountView       `json:"account"`
	Entries      []StatementEntry  `json:"entries"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	Provisional  bool              `json:"provisional"`
}

// LedgerService runs the balance engine over fetched ledger data.
type LedgerService struct {
	source LedgerSource
	logger *zap.Logger
}

// NewLedgerService creates the service.
func NewLedgerService(source LedgerSource, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{source: source, logger: logger}
}

// Overview lists accounts of kind with used amounts and totals.
func (s *LedgerService) Overview(ctx context.Context, kind domain.LedgerKind) (LedgerOverview, error) {
	if !kind.Valid() {
		return LedgerOverview{}, apperrors.NewNotFound("ledger", map[string]any{"kind": kind})
	}
	accounts, err := s.source.Accounts(ctx, kind)
	if err != nil {
		return LedgerOverview{}, err
	}
	views := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, newAccountView(a))
	}
	return LedgerOverview{Kind: kind, Accounts: views, Totals: ledger.SummarizeAccounts(accounts)}, nil
}

// Statement builds the running balance of one account from zero.
func (s *LedgerService) Statement(ctx context.Context, kind domain.LedgerKind, accountID int64) (Statement, error) {
	if !kind.Valid() {
		return Statement{}, apperrors.NewNotFound("ledger", map[string]any{"kind": kind})
	}
	account, err := s.source.Account(ctx, kind, accountID)
	if err != nil {
		return Statement{}, err
	}
	txs, err := s.source.Transactions(ctx, kind, accountID)
	if err != nil {
		return Statement{}, err
	}
	table, err := s.typeTable(ctx, kind)
	if err != nil {
		return Statement{}, err
	}

	running := ledger.RunningBalance(txs, decimal.Zero, table)
	entries := make([]StatementEntry, 0, len(running))
	for _, e := range running {
		entries = append(entries, StatementEntry{
			LedgerTransaction: e.Transaction,
			Direction:         e.Direction,
			RunningBalance:    e.Balance,
		})
	}

	return Statement{
		Kind:         kind,
		Account:      newAccountView(account),
		Entries:      entries,
		TotalCredits: ledger.TotalCredits(txs, table),
		TotalDebits:  ledger.TotalDebits(txs, table),
		Provisional:  !table.Loaded(),
	}, nil
}

// RecordTransaction validates and forwards a new movement.
// Nothing is cached locally, so a failure leaves nothing to undo.
func (s *LedgerService) RecordTransaction(ctx context.Context, kind domain.LedgerKind, tx domain.NewLedgerTransaction) (domain.LedgerTransaction, error) {
	if !kind.Valid() {
		return domain.LedgerTransaction{}, apperrors.NewNotFound("ledger", map[string]any{"kind": kind})
	}
	if tx.AccountID <= 0 || tx.TransactionTypeID <= 0 {
		return domain.LedgerTransaction{}, apperrors.NewValidationError("account and transaction type are required", nil)
	}
	if !tx.Amount.IsPositive() {
		return domain.LedgerTransaction{}, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": tx.Amount.String()})
	}
	return s.source.CreateTransaction(ctx, kind, tx)
}

// typeTable loads the classification table. A failed load degrades to the
// provisional table, except for authentication failures which must surface.
func (s *LedgerService) typeTable(ctx context.Context, kind domain.LedgerKind) (*ledger.TypeTable, error) {
	options, err := s.source.TransactionTypes(ctx, kind)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return nil, err
		}
		s.logger.Warn("transaction types unavailable, classifying provisionally",
			zap.String("kind", string(kind)), zap.Error(err))
		return ledger.UnloadedTypeTable(), nil
	}
	return ledger.NewTypeTable(options), nil
}

func newAccountView(a domain.LedgerAccount) AccountView {
	return AccountView{LedgerAccount: a, UsedAmount: ledger.UsedAmount(a)}
}
