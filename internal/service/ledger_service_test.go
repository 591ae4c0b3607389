package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/domain"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

type fakeLedgerSource struct {
	accounts []domain.LedgerAccount
	txs      []domain.LedgerTransaction
	types    []domain.ConfigurationOption
	typesErr error
	created  []domain.NewLedgerTransaction
}

func (f *fakeLedgerSource) Accounts(context.Context, domain.LedgerKind) ([]domain.LedgerAccount, error) {
	return f.accounts, nil
}

func (f *fakeLedgerSource) Account(_ context.Context, _ domain.LedgerKind, id int64) (domain.LedgerAccount, error) {
	for _, a := range f.accounts {
		if a.AccountID == id {
			return a, nil
		}
	}
	return domain.LedgerAccount{}, &apiclient.BusinessError{StatusCode: 404, Message: "not found"}
}

func (f *fakeLedgerSource) Transactions(context.Context, domain.LedgerKind, int64) ([]domain.LedgerTransaction, error) {
	return f.txs, nil
}

func (f *fakeLedgerSource) TransactionTypes(context.Context, domain.LedgerKind) ([]domain.ConfigurationOption, error) {
	return f.types, f.typesErr
}

func (f *fakeLedgerSource) CreateTransaction(_ context.Context, _ domain.LedgerKind, tx domain.NewLedgerTransaction) (domain.LedgerTransaction, error) {
	f.created = append(f.created, tx)
	return domain.LedgerTransaction{TransactionID: 1, AccountID: tx.AccountID, Amount: tx.Amount, IsActive: true}, nil
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newSource() *fakeLedgerSource {
	return &fakeLedgerSource{
		accounts: []domain.LedgerAccount{
			{AccountID: 1, Name: "Fuel", AddedAmount: d("1000"), CurrentAmount: d("350"), IsActive: true},
			{AccountID: 2, Name: "Closed", AddedAmount: d("500"), CurrentAmount: d("0"), IsActive: false},
		},
		txs: []domain.LedgerTransaction{
			{TransactionID: 1, AccountID: 1, TransactionTypeID: 1, Amount: d("100"), IsActive: true},
			{TransactionID: 2, AccountID: 1, TransactionTypeID: 2, Amount: d("40"), IsActive: true},
			{TransactionID: 3, AccountID: 1, TransactionTypeID: 1, Amount: d("999"), IsActive: false},
		},
		types: []domain.ConfigurationOption{{OptionID: 1, Value: "CREDIT"}, {OptionID: 2, Value: "DEBIT"}},
	}
}

func TestLedgerOverview(t *testing.T) {
	svc := NewLedgerService(newSource(), nil)
	overview, err := svc.Overview(context.Background(), domain.LedgerKindResource)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview.Accounts) != 2 || !overview.Accounts[0].UsedAmount.Equal(d("650")) {
		t.Fatalf("unexpected accounts %+v", overview.Accounts)
	}
	if !overview.Totals.Added.Equal(d("1000")) || !overview.Totals.Used.Equal(d("650")) || !overview.Totals.Remaining.Equal(d("350")) {
		t.Fatalf("unexpected totals %+v", overview.Totals)
	}
}

func TestLedgerStatement(t *testing.T) {
	svc := NewLedgerService(newSource(), nil)
	st, err := svc.Statement(context.Background(), domain.LedgerKindICTSI, 1)
	if err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if st.Provisional {
		t.Fatal("statement should not be provisional")
	}
	if !st.TotalCredits.Equal(d("100")) || !st.TotalDebits.Equal(d("40")) {
		t.Fatalf("totals = %s/%s", st.TotalCredits, st.TotalDebits)
	}
	if len(st.Entries) != 3 || st.Entries[1].Direction != domain.DirectionDebit || !st.Entries[2].RunningBalance.Equal(d("60")) {
		t.Fatalf("unexpected entries %+v", st.Entries)
	}
}

func TestLedgerStatementProvisionalWhenTypesUnavailable(t *testing.T) {
	src := newSource()
	src.typesErr = &apiclient.TransportError{Op: "GET configuration", StatusCode: 503}
	svc := NewLedgerService(src, nil)

	st, err := svc.Statement(context.Background(), domain.LedgerKindICTSI, 1)
	if err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if !st.Provisional || !st.TotalCredits.Equal(d("140")) || !st.TotalDebits.IsZero() {
		t.Fatalf("unexpected provisional statement %+v", st)
	}
}

func TestLedgerStatementSurfacesAuthFailure(t *testing.T) {
	src := newSource()
	src.typesErr = &apiclient.AuthError{Redirect: "/login", Err: errors.New("401")}
	svc := NewLedgerService(src, nil)

	if _, err := svc.Statement(context.Background(), domain.LedgerKindResource, 1); !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestRecordTransactionValidates(t *testing.T) {
	cases := []struct {
		name   string
		kind   domain.LedgerKind
		tx     domain.NewLedgerTransaction
		status int
	}{
		{name: "unknown kind", kind: "petty", tx: domain.NewLedgerTransaction{AccountID: 1, TransactionTypeID: 1, Amount: d("1")}, status: 404},
		{name: "missing account", kind: domain.LedgerKindResource, tx: domain.NewLedgerTransaction{TransactionTypeID: 1, Amount: d("1")}, status: 400},
		{name: "zero amount", kind: domain.LedgerKindResource, tx: domain.NewLedgerTransaction{AccountID: 1, TransactionTypeID: 1}, status: 400},
		{name: "negative amount", kind: domain.LedgerKindICTSI, tx: domain.NewLedgerTransaction{AccountID: 1, TransactionTypeID: 1, Amount: d("-5")}, status: 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := newSource()
			svc := NewLedgerService(src, nil)
			_, err := svc.RecordTransaction(context.Background(), tc.kind, tc.tx)
			if got := apperrors.ToDomainError(err); got == nil || got.HTTPStatus != tc.status {
				t.Fatalf("expected status %d, got %v", tc.status, err)
			}
			if len(src.created) != 0 {
				t.Fatal("invalid transaction must not be forwarded")
			}
		})
	}

	src := newSource()
	created, err := NewLedgerService(src, nil).RecordTransaction(context.Background(), domain.LedgerKindResource,
		domain.NewLedgerTransaction{AccountID: 1, TransactionTypeID: 2, Amount: d("12.5")})
	if err != nil || created.TransactionID != 1 || len(src.created) != 1 {
		t.Fatalf("RecordTransaction = %+v, %v", created, err)
	}
}
