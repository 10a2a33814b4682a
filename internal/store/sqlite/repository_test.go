package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedAccount(t *testing.T, repo *Repository) core.Account {
	t.Helper()
	a, err := repo.CreateAccount(context.Background(), core.Account{
		Name:          "Checking",
		Type:          core.AccountBank,
		InitialAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func TestAccountRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created := seedAccount(t, repo)
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.GetAccount(ctx, created.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Name != "Checking" || got.Type != core.AccountBank {
		t.Fatalf("got %+v", got)
	}
	if !got.InitialAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("initial = %s", got.InitialAmount)
	}

	got.Name = "Main Checking"
	if err := repo.UpdateAccount(ctx, got); err != nil {
		t.Fatalf("update account: %v", err)
	}
	got, err = repo.GetAccount(ctx, created.ID)
	if err != nil || got.Name != "Main Checking" {
		t.Fatalf("after update: %+v (err=%v)", got, err)
	}

	if _, err := repo.GetAccount(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRoundTripAndOrdering(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	account := seedAccount(t, repo)

	mk := func(name, date string) core.Transaction {
		tx, err := repo.CreateTransaction(ctx, core.Transaction{
			AccountID: account.ID,
			Type:      core.Expense,
			Name:      name,
			Category:  core.CategoryFood,
			Amount:    decimal.NewFromInt(5),
			Date:      mustDate(t, date),
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return tx
	}

	mk("older", "2024-03-01")
	newer := mk("newer", "2024-03-05")

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 || txs[0].Name != "newer" || txs[1].Name != "older" {
		t.Fatalf("expected newest first, got %+v", txs)
	}

	byAccount, err := repo.ListTransactionsByAccount(ctx, account.ID)
	if err != nil || len(byAccount) != 2 {
		t.Fatalf("by account: %d (err=%v)", len(byAccount), err)
	}

	if err := repo.DeleteTransaction(ctx, newer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, newer.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		AccountID: "missing",
		Type:      core.Expense,
		Name:      "orphan",
		Category:  core.CategoryFood,
		Amount:    decimal.NewFromInt(1),
		Date:      mustDate(t, "2024-03-01"),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	account := seedAccount(t, repo)

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		AccountID: account.ID,
		Type:      core.Expense,
		Name:      "doomed",
		Category:  core.CategoryFood,
		Amount:    decimal.NewFromInt(1),
		Date:      mustDate(t, "2024-03-01"),
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := repo.DeleteAccount(ctx, account.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected cascade delete, found %d transactions", len(txs))
	}
}

func TestSyncStateTransitions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	account := seedAccount(t, repo)

	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		AccountID: account.ID,
		Type:      core.Expense,
		Name:      "pending",
		Category:  core.CategoryFood,
		Amount:    decimal.NewFromInt(9),
		Date:      mustDate(t, "2024-03-01"),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	pending, err := repo.PendingSyncTransactions(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].ID != tx.ID {
		t.Fatalf("pending = %+v (err=%v)", pending, err)
	}

	if err := repo.MarkSynced(ctx, tx.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.PendingSyncTransactions(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending after sync, got %d (err=%v)", len(pending), err)
	}

	// Updates put the row back in the export queue
	tx.Name = "edited"
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	pending, err = repo.PendingSyncTransactions(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected pending after update, got %d (err=%v)", len(pending), err)
	}

	if err := repo.MarkSyncError(ctx, tx.ID); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
	pending, err = repo.PendingSyncTransactions(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("errored rows are not pending, got %d (err=%v)", len(pending), err)
	}

	if err := repo.MarkSynced(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}
