// Package postgres implements the store ports on PostgreSQL via pgx.
// It shares the storage contract with the sqlite backend; schema setup
// is idempotent so the server can bootstrap an empty database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    initial_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    type TEXT NOT NULL CHECK (type IN ('expense', 'income')),
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    amount NUMERIC(20,4) NOT NULL,
    date DATE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

type Repository struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Repository)(nil)

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(pctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, name, type, initial_amount) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Name, string(a.Type), a.InitialAmount.String())
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (r *Repository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var (
		a      core.Account
		typ    string
		amount string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, type, initial_amount::text FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &typ, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Account{}, store.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.Type = core.AccountType(typ)
	a.InitialAmount = core.CoerceAmount(amount)
	return a, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET name = $1, type = $2, initial_amount = $3 WHERE id = $4`,
		a.Name, string(a.Type), a.InitialAmount.String(), a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAccount relies on the ON DELETE CASCADE constraint to drop the
// account's transactions with it.
func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, initial_amount::text FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]core.Account, 0)
	for rows.Next() {
		var (
			a      core.Account
			typ    string
			amount string
		)
		if err := rows.Scan(&a.ID, &a.Name, &typ, &amount); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(typ)
		a.InitialAmount = core.CoerceAmount(amount)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	// Resolve the account first so an unknown account surfaces as
	// store.ErrNotFound rather than a foreign key failure.
	if _, err := r.GetAccount(ctx, tx.AccountID); err != nil {
		return core.Transaction{}, err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, account_id, type, name, category, amount, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.ID, tx.AccountID, string(tx.Type), tx.Name, string(tx.Category),
		tx.Amount.String(), tx.Date.Time)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, account_id, type, name, category, amount::text, date FROM transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET account_id = $1, type = $2, name = $3, category = $4, amount = $5, date = $6
		 WHERE id = $7`,
		tx.AccountID, string(tx.Type), tx.Name, string(tx.Category),
		tx.Amount.String(), tx.Date.Time, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT id, account_id, type, name, category, amount::text, date
		 FROM transactions ORDER BY date DESC, created_at DESC`)
}

func (r *Repository) ListTransactionsByAccount(ctx context.Context, accountID string) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT id, account_id, type, name, category, amount::text, date
		 FROM transactions WHERE account_id = $1 ORDER BY date DESC, created_at DESC`, accountID)
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx       core.Transaction
		typ      string
		category string
		amount   string
		date     time.Time
	)
	if err := row.Scan(&tx.ID, &tx.AccountID, &typ, &tx.Name, &category, &amount, &date); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	tx.Category = core.Category(category)
	tx.Amount = core.CoerceAmount(amount)
	tx.Date = core.DateOf(date)
	return tx, nil
}
