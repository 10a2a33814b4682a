package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// Exporter is an in-memory TransactionExporter used in tests and when no
// spreadsheet is configured.
type Exporter struct {
	mu   sync.Mutex
	rows []Row
}

type Row struct {
	Account     core.Account
	Transaction core.Transaction
}

var _ ports.TransactionExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Append(ctx context.Context, account core.Account, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, Row{Account: account, Transaction: tx})
	return fmt.Sprintf("memory!A%d", len(e.rows)), nil
}

// DeleteByTransactionID removes any exported rows for the transaction.
func (e *Exporter) DeleteByTransactionID(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.rows[:0]
	for _, row := range e.rows {
		if row.Transaction.ID != id {
			kept = append(kept, row)
		}
	}
	e.rows = kept
	return nil
}

// Rows returns a copy of everything appended so far
func (e *Exporter) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}
