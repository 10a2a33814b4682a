package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// handleTransactions serves the transaction list partial and creates transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionList(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var (
		txs []core.Transaction
		err error
	)
	if accountID := sanitizeInput(r.URL.Query().Get("account")); accountID != "" {
		txs, err = s.transactions.ListTransactionsByAccount(r.Context(), accountID)
	} else {
		txs, err = s.transactions.ListTransactions(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		InternalServerError("Error loading transactions").Write(w)
		return
	}

	data := struct {
		Transactions []transactionRow
	}{}
	for _, tx := range txs {
		data.Transactions = append(data.Transactions, transactionRow{
			ID:       tx.ID,
			Name:     tx.Name,
			Type:     string(tx.Type),
			Category: tx.Category.Label(),
			Amount:   core.FormatUSD(tx.Amount),
			Date:     tx.Date.String(),
		})
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "transactions_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions_list.html")
		InternalServerError("Error rendering transactions").Write(w)
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, fieldErrors := ParseTransactionForm(r.Form)
	if fieldErrors != nil {
		FieldErrorsResponse(fieldErrors).Write(w)
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			FieldErrorsResponse(map[string]string{"account": "Account does not exist"}).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err,
			"transaction_name", tx.Name, "amount", tx.Amount.String())
		InternalServerError("Error saving transaction").Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.totalTransactions, 1)
	s.httpLog.LogTransactionCreated(r.Context(), created.ID, created.Name,
		string(created.Type), string(created.Category), created.Amount.StringFixed(2))
	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerTransactionCreated(created.ID).
		TriggerDashboardRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Transaction saved: " + created.Name).
		BodyHTML(`<div class="success">Transaction saved: ` +
			template.HTMLEscapeString(created.Name) + ` (` + core.FormatUSD(created.Amount) + `)</div>`).
		Write(w)
}

// handleTransactionByID updates or deletes a single transaction
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, fieldErrors := ParseTransactionForm(r.Form)
	if fieldErrors != nil {
		FieldErrorsResponse(fieldErrors).Write(w)
		return
	}
	tx.ID = id

	if err := s.transactions.UpdateTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction update error", "error", err, "transaction_id", id)
		InternalServerError("Error updating transaction").Write(w)
		return
	}

	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Transaction updated").
		BodyHTML(`<div class="success">Transaction updated</div>`).
		Write(w)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.transactions.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "transaction_id", id)
		InternalServerError("Error deleting transaction").Write(w)
		return
	}

	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerTransactionDeleted(id).
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Transaction deleted").
		BodyHTML(`<div class="success">Transaction deleted</div>`).
		Write(w)
}
