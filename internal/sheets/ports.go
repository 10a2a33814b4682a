package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter appends a transaction row to an external sheet.
	// The returned rowRef identifies where the row landed.
	TransactionExporter interface {
		Append(ctx context.Context, account core.Account, tx core.Transaction) (rowRef string, err error)
	}
)
