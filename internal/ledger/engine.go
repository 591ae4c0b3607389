package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Entry is a transaction annotated with its direction and the balance after it.
type Entry struct {
	Transaction domain.LedgerTransaction
	Direction   domain.Direction
	Balance     decimal.Decimal
}

// RunningBalance walks transactions in the given order. Credits add, debits
// subtract. Inactive rows are reported with the balance carried unchanged.
func RunningBalance(transactions []domain.LedgerTransaction, starting decimal.Decimal, classifier TypeClassifier) []Entry {
	entries := make([]Entry, 0, len(transactions))
	balance := starting
	for _, tx := range transactions {
		direction := Classify(tx.TransactionTypeID, classifier)
		if tx.IsActive {
			if direction == domain.DirectionDebit {
				balance = balance.Sub(tx.Amount)
			} else {
				balance = balance.Add(tx.Amount)
			}
		}
		entries = append(entries, Entry{Transaction: tx, Direction: direction, Balance: balance})
	}
	return entries
}

// TotalCredits sums active credit transactions.
func TotalCredits(transactions []domain.LedgerTransaction, classifier TypeClassifier) decimal.Decimal {
	return sumDirection(transactions, classifier, domain.DirectionCredit)
}

// TotalDebits sums active debit transactions.
func TotalDebits(transactions []domain.LedgerTransaction, classifier TypeClassifier) decimal.Decimal {
	return sumDirection(transactions, classifier, domain.DirectionDebit)
}

func sumDirection(transactions []domain.LedgerTransaction, classifier TypeClassifier, want domain.Direction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if !tx.IsActive || Classify(tx.TransactionTypeID, classifier) != want {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// TotalAdded sums AddedAmount over active accounts.
func TotalAdded(accounts []domain.LedgerAccount) decimal.Decimal {
	return sumAccounts(accounts, func(a domain.LedgerAccount) decimal.Decimal { return a.AddedAmount })
}

// TotalUsed sums the derived used amount over active accounts.
func TotalUsed(accounts []domain.LedgerAccount) decimal.Decimal {
	return sumAccounts(accounts, UsedAmount)
}

// TotalRemaining sums CurrentAmount over active accounts.
func TotalRemaining(accounts []domain.LedgerAccount) decimal.Decimal {
	return sumAccounts(accounts, func(a domain.LedgerAccount) decimal.Decimal { return a.CurrentAmount })
}

// UsedAmount is added minus current. It is not clamped.
func UsedAmount(account domain.LedgerAccount) decimal.Decimal {
	return account.UsedAmount()
}

func sumAccounts(accounts []domain.LedgerAccount, value func(domain.LedgerAccount) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.IsActive {
			total = total.Add(value(a))
		}
	}
	return total
}

// AccountTotals aggregates a list of accounts.
type AccountTotals struct {
	Added     decimal.Decimal `json:"added"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SummarizeAccounts computes every account aggregate at once.
func SummarizeAccounts(accounts []domain.LedgerAccount) AccountTotals {
	return AccountTotals{
		Added:     TotalAdded(accounts),
		Used:      TotalUsed(accounts),
		Remaining: TotalRemaining(accounts),
	}
}
