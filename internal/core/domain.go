package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	AccountBank       AccountType = "bank"
	AccountCash       AccountType = "cash"
	AccountCredit     AccountType = "credit"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	AccountType     string
	TransactionType string

	// Account is a named bucket of funds with a starting balance.
	Account struct {
		ID            string
		Name          string
		Type          AccountType
		InitialAmount decimal.Decimal
	}

	// Transaction is a single income or expense event attached to one
	// account. Amount is always positive; the sign is carried by Type.
	Transaction struct {
		ID        string
		AccountID string
		Type      TransactionType
		Name      string
		Category  Category
		Amount    decimal.Decimal
		Date      Date
	}
)

var (
	ErrEmptyName              = errors.New("empty name")
	ErrNameTooLong            = errors.New("name too long (max 100 characters)")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrNegativeAmount         = errors.New("amount cannot be negative")
	ErrMissingAccount         = errors.New("missing account reference")
	ErrMissingCategory        = errors.New("missing category")
	ErrInvalidDate            = errors.New("invalid date")
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountBank, AccountCash, AccountCredit, AccountSavings, AccountInvestment:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func (a Account) Validate() error {
	if err := validateName(a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if a.InitialAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.AccountID) == "" {
		return ErrMissingAccount
	}
	if !tx.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if err := validateName(tx.Name); err != nil {
		return err
	}
	if strings.TrimSpace(string(tx.Category)) == "" {
		return ErrMissingCategory
	}
	// Positive regardless of type; expenses subtract at aggregation time.
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	return nil
}
