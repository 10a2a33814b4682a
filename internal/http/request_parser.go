// Package http provides the web layer: server, handlers, and HTMX
// response plumbing.
//
// This file implements utilities for parsing and validating HTTP
// request data, consolidating the repeated form and query parsing
// patterns across handlers.

package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/reports"
)

// ParseFilterParams extracts the dashboard filter from query parameters.
// Missing or invalid values fall back to the wildcard defaults.
func ParseFilterParams(query url.Values) reports.Filter {
	f := reports.Filter{
		AccountID: sanitizeInput(query.Get("account")),
		Type:      sanitizeInput(query.Get("type")),
		Category:  sanitizeInput(query.Get("category")),
	}

	if v := strings.TrimSpace(query.Get("window")); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			f.WindowDays = days
		}
	}

	return f.Normalize()
}

// ParseAccountForm validates the account creation/update form.
// The returned map holds field-level error messages and is nil on success.
func ParseAccountForm(form url.Values) (core.Account, map[string]string) {
	fieldErrors := make(map[string]string)

	name := sanitizeInput(form.Get("name"))
	if name == "" {
		fieldErrors["name"] = "Name is required"
	} else if len(name) > 100 {
		fieldErrors["name"] = "Name must be at most 100 characters"
	}

	accountType := core.AccountType(sanitizeInput(form.Get("type")))
	if !accountType.Valid() {
		fieldErrors["type"] = "Select a valid account type"
	}

	amountStr := strings.TrimSpace(form.Get("initial_amount"))
	if amountStr == "" {
		amountStr = "0"
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		fieldErrors["initial_amount"] = "Initial amount must be a non-negative number"
	}

	if len(fieldErrors) > 0 {
		return core.Account{}, fieldErrors
	}

	return core.Account{
		Name:          name,
		Type:          accountType,
		InitialAmount: amount,
	}, nil
}

// ParseTransactionForm validates the transaction creation/update form.
func ParseTransactionForm(form url.Values) (core.Transaction, map[string]string) {
	fieldErrors := make(map[string]string)

	accountID := sanitizeInput(form.Get("account"))
	if accountID == "" {
		fieldErrors["account"] = "Select an account"
	}

	txType := core.TransactionType(sanitizeInput(form.Get("type")))
	if !txType.Valid() {
		fieldErrors["type"] = "Select a valid transaction type"
	}

	name := sanitizeInput(form.Get("name"))
	if name == "" {
		fieldErrors["name"] = "Name is required"
	} else if len(name) > 100 {
		fieldErrors["name"] = "Name must be at most 100 characters"
	}

	category := core.Category(sanitizeInput(form.Get("category")))
	if category == "" {
		fieldErrors["category"] = "Select a category"
	} else if !category.Valid() {
		fieldErrors["category"] = "Unknown category"
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		fieldErrors["amount"] = "Amount must be a positive number"
	} else if !amount.IsPositive() {
		fieldErrors["amount"] = "Amount must be greater than zero"
	}

	date, err := core.ParseDate(strings.TrimSpace(form.Get("date")))
	if err != nil {
		fieldErrors["date"] = "Date must be in YYYY-MM-DD format"
	}

	if len(fieldErrors) > 0 {
		return core.Transaction{}, fieldErrors
	}

	return core.Transaction{
		AccountID: accountID,
		Type:      txType,
		Name:      name,
		Category:  category,
		Amount:    amount,
		Date:      date,
	}, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
