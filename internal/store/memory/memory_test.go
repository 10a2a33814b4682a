package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newAccount(t *testing.T, s *Store, name string) core.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), core.Account{
		Name:          name,
		Type:          core.AccountBank,
		InitialAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func newTransaction(t *testing.T, s *Store, accountID, name, date string) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	tx, err := s.CreateTransaction(context.Background(), core.Transaction{
		AccountID: accountID,
		Type:      core.Expense,
		Name:      name,
		Category:  core.CategoryFood,
		Amount:    decimal.NewFromInt(10),
		Date:      d,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestAccountCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := newAccount(t, s, "Checking")
	if a.ID == "" {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetAccount(ctx, a.ID)
	if err != nil || got.Name != "Checking" {
		t.Fatalf("get: %v %+v", err, got)
	}

	a.Name = "Main Checking"
	if err := s.UpdateAccount(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetAccount(ctx, a.ID)
	if got.Name != "Main Checking" {
		t.Fatalf("update not applied: %+v", got)
	}

	if _, err := s.GetAccount(ctx, "missing"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteAccount(ctx, "missing"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := newAccount(t, s, "Checking")
	b := newAccount(t, s, "Savings")
	txA := newTransaction(t, s, a.ID, "groceries", "2024-01-02")
	txB := newTransaction(t, s, b.ID, "rent", "2024-01-03")

	if err := s.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, txA.ID); err != store.ErrNotFound {
		t.Fatalf("transaction should be cascaded away, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, txB.ID); err != nil {
		t.Fatalf("other account's transaction must survive: %v", err)
	}
}

func TestTransactionCRUDAndOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := newAccount(t, s, "Checking")

	// Reject transactions against unknown accounts.
	if _, err := s.CreateTransaction(ctx, core.Transaction{
		AccountID: "ghost",
		Type:      core.Expense,
		Name:      "x",
		Category:  core.CategoryFood,
		Amount:    decimal.NewFromInt(1),
		Date:      core.NewDate(2024, 1, 1),
	}); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	older := newTransaction(t, s, a.ID, "older", "2024-01-01")
	newer := newTransaction(t, s, a.ID, "newer", "2024-02-01")
	sameDay := newTransaction(t, s, a.ID, "same-day-later", "2024-02-01")

	list, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d transactions", len(list))
	}
	// Newest date first; equal dates newest insertion first.
	if list[0].ID != sameDay.ID || list[1].ID != newer.ID || list[2].ID != older.ID {
		t.Fatalf("unexpected order: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}

	older.Name = "renamed"
	if err := s.UpdateTransaction(ctx, older); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.GetTransaction(ctx, older.ID)
	if got.Name != "renamed" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(ctx, older.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, older.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	byAccount, err := s.ListTransactionsByAccount(ctx, a.ID)
	if err != nil || len(byAccount) != 2 {
		t.Fatalf("by account: %v, %d", err, len(byAccount))
	}
}

func TestValidationErrorsSurface(t *testing.T) {
	s := New()
	if _, err := s.CreateAccount(context.Background(), core.Account{Name: "", Type: core.AccountBank}); err != core.ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
