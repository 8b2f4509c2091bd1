package domain

import (
	"time"
)

// TransactionKind distinguishes money going out from money coming in.
type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Transaction represents one normalized transaction produced by the
// extractor. This is a domain struct, not a database row; the storage
// layer maps it into the transactions table schema.
type Transaction struct {
	Kind   TransactionKind // "expense" or "income"
	Amount float64         // always positive

	Category *string // expense only, e.g. "food"
	Target   *string // expense only, e.g. "milk"
	Source   *string // income only, e.g. "salary"

	Date      time.Time // calendar date; time-of-day part is ignored
	TimeOfDay *string   // "HH:MM", nil when unparsable

	// UserID is zero until the orchestrator attaches it; the extractor
	// deliberately knows nothing about identity.
	UserID int64
}

// Valid reports whether the transaction satisfies the ledger invariants:
// a known kind and a strictly positive amount.
func (t *Transaction) Valid() bool {
	if t.Amount <= 0 {
		return false
	}
	return t.Kind == KindExpense || t.Kind == KindIncome
}
