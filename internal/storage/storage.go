// Package storage defines the SQL-executing collaborator the pipeline
// persists to and queries against. The core treats it as a service: one
// insert or one scoped statement per call, no cross-statement transactions,
// no retries.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/sqlscope"
)

// Store executes scoped statements and persists transactions.
type Store interface {
	// Execute runs one scoped statement. SELECTs yield rows, anything else
	// an affected-row count. Errors wrap domain.ErrStorage.
	Execute(ctx context.Context, query sqlscope.Scoped) (*Result, error)

	// InsertTransaction appends one transaction to the ledger.
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error

	Close()
}

// Result carries the outcome of one executed statement.
type Result struct {
	// Columns and Rows are populated for SELECT statements.
	Columns []string
	Rows    [][]any

	// Affected is populated for DELETE and other non-SELECT statements.
	Affected int64

	// IsRows distinguishes an empty row set from a zero-row mutation.
	IsRows bool
}

// Empty reports whether the result carries no usable data: no rows, or
// only NULL aggregate values (SUM over an empty set yields a single NULL).
func (r *Result) Empty() bool {
	if !r.IsRows {
		return false
	}
	for _, row := range r.Rows {
		for _, v := range row {
			if v != nil {
				return false
			}
		}
	}
	return true
}

// String renders the result compactly for embedding into a synthesis
// prompt. The generator only needs the values, not a table layout.
func (r *Result) String() string {
	if !r.IsRows {
		return fmt.Sprintf("%d row(s) affected", r.Affected)
	}
	if r.Empty() {
		return "no data"
	}

	var b strings.Builder
	b.WriteString(strings.Join(r.Columns, ", "))
	for _, row := range r.Rows {
		b.WriteString("\n")
		for i, v := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			if v == nil {
				b.WriteString("NULL")
			} else {
				fmt.Fprintf(&b, "%v", v)
			}
		}
	}
	return b.String()
}
