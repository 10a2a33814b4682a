package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/reports"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

func seedStore(t *testing.T) (*memory.Store, core.Account) {
	t.Helper()
	st := memory.New()
	a, err := st.CreateAccount(context.Background(), core.Account{
		Name:          "Checking",
		Type:          core.AccountBank,
		InitialAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return st, a
}

func TestTransactionServiceCreateWithoutAMQP(t *testing.T) {
	st, a := seedStore(t)
	svc := NewTransactionService(st, nil)

	created, err := svc.CreateTransaction(context.Background(), core.Transaction{
		AccountID: a.ID,
		Type:      core.Expense,
		Name:      "groceries",
		Category:  core.CategoryFood,
		Amount:    decimal.RequireFromString("12.50"),
		Date:      core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned ID")
	}

	created.Name = "weekly groceries"
	if err := svc.UpdateTransaction(context.Background(), created); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.DeleteTransaction(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetTransaction(context.Background(), created.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountServiceDeleteCascades(t *testing.T) {
	st, a := seedStore(t)
	accounts := NewAccountService(st)
	txs := NewTransactionService(st, nil)

	created, err := txs.CreateTransaction(context.Background(), core.Transaction{
		AccountID: a.ID,
		Type:      core.Income,
		Name:      "salary",
		Category:  core.CategoryIncome,
		Amount:    decimal.NewFromInt(2000),
		Date:      core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	if err := accounts.DeleteAccount(context.Background(), a.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := txs.GetTransaction(context.Background(), created.ID); err != store.ErrNotFound {
		t.Fatalf("expected cascade, got %v", err)
	}
}

func TestBuildDashboard(t *testing.T) {
	st, a := seedStore(t)
	txs := NewTransactionService(st, nil)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	mustCreate := func(txType core.TransactionType, name string, cat core.Category, amount string, date core.Date) {
		t.Helper()
		if _, err := txs.CreateTransaction(context.Background(), core.Transaction{
			AccountID: a.ID,
			Type:      txType,
			Name:      name,
			Category:  cat,
			Amount:    decimal.RequireFromString(amount),
			Date:      date,
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate(core.Income, "salary", core.CategoryIncome, "50", core.NewDate(2024, 3, 10))
	mustCreate(core.Expense, "groceries", core.CategoryFood, "30", core.NewDate(2024, 3, 12))
	mustCreate(core.Expense, "old rent", core.CategoryHouse, "900", core.NewDate(2023, 1, 1))

	svc := NewReportService(st)
	d, err := svc.BuildDashboard(context.Background(), reports.Filter{WindowDays: 30}, now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if d.Summary.TransactionCount != 2 {
		t.Errorf("count = %d", d.Summary.TransactionCount)
	}
	if !d.Summary.NetAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("net = %s", d.Summary.NetAmount)
	}
	if !d.Summary.TotalBalance.Equal(decimal.NewFromInt(120)) {
		t.Errorf("balance = %s", d.Summary.TotalBalance)
	}
	if len(d.Daily) != 2 {
		t.Errorf("daily buckets = %d", len(d.Daily))
	}
	if len(d.Categories) != 1 || d.Categories[0].Category != string(core.CategoryFood) {
		t.Errorf("categories = %+v", d.Categories)
	}
	// Category selector options come from the whole data set, not the window.
	if len(d.CategoryList) != 3 {
		t.Errorf("category list = %v", d.CategoryList)
	}
	if d.Filter.AccountID != reports.All {
		t.Errorf("filter not normalized: %+v", d.Filter)
	}
}
