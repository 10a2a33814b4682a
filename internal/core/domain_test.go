package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountValidate(t *testing.T) {
	good := Account{
		ID:            "a1",
		Name:          "Checking",
		Type:          AccountBank,
		InitialAmount: decimal.NewFromInt(100),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Zero starting balance is allowed.
	zero := good
	zero.InitialAmount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("expected ok for zero initial amount, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Account)
		want error
	}{
		{"empty name", func(a *Account) { a.Name = "   " }, ErrEmptyName},
		{"name too long", func(a *Account) { a.Name = strings.Repeat("x", 101) }, ErrNameTooLong},
		{"bad type", func(a *Account) { a.Type = "wallet" }, ErrInvalidAccountType},
		{"negative balance", func(a *Account) { a.InitialAmount = decimal.NewFromInt(-1) }, ErrNegativeAmount},
	}
	for _, tc := range cases {
		a := good
		tc.mut(&a)
		if err := a.Validate(); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:        "t1",
		AccountID: "a1",
		Type:      Expense,
		Name:      "Groceries",
		Category:  CategoryFood,
		Amount:    decimal.RequireFromString("12.50"),
		Date:      NewDate(2024, 1, 2),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"missing account", func(tx *Transaction) { tx.AccountID = "" }, ErrMissingAccount},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidTransactionType},
		{"empty name", func(tx *Transaction) { tx.Name = "" }, ErrEmptyName},
		{"name too long", func(tx *Transaction) { tx.Name = strings.Repeat("y", 101) }, ErrNameTooLong},
		{"missing category", func(tx *Transaction) { tx.Category = " " }, ErrMissingCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		tx := good
		tc.mut(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// Income amounts are positive too; the type alone carries the sign.
	income := good
	income.Type = Income
	income.Category = CategoryIncome
	if err := income.Validate(); err != nil {
		t.Fatalf("expected ok for income, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Fatalf("round trip: got %s", d.String())
	}
	if _, err := ParseDate("02/01/2024"); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateOnOrAfter(t *testing.T) {
	a := NewDate(2024, 1, 2)
	b := NewDate(2024, 1, 2)
	if !a.OnOrAfter(b) {
		t.Fatal("equal dates must be on-or-after (inclusive boundary)")
	}
	if !a.AddDays(1).OnOrAfter(b) {
		t.Fatal("later date must be on-or-after")
	}
	if a.AddDays(-1).OnOrAfter(b) {
		t.Fatal("earlier date must not be on-or-after")
	}
}
