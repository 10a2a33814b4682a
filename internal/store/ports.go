// Package store defines the persistence ports for accounts and
// transactions. Backends (memory, sqlite, postgres) implement these
// interfaces; everything above them is backend-agnostic.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type (
	AccountStore interface {
		// CreateAccount persists a new account, assigning an ID when empty.
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		GetAccount(ctx context.Context, id string) (core.Account, error)
		UpdateAccount(ctx context.Context, a core.Account) error
		// DeleteAccount removes the account and all of its transactions.
		DeleteAccount(ctx context.Context, id string) error
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	TransactionStore interface {
		// CreateTransaction persists a new transaction, assigning an ID
		// when empty.
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns all transactions, newest date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ListTransactionsByAccount(ctx context.Context, accountID string) ([]core.Transaction, error)
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		AccountStore
		TransactionStore
		Close() error
	}
)
