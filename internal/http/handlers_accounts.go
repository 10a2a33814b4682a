package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// handleAccounts serves the account list partial and creates accounts
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccountList(w, r)
	case http.MethodPost:
		s.createAccount(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderAccountList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	accounts, err := s.accounts.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts error", "error", err)
		InternalServerError("Error loading accounts").Write(w)
		return
	}

	type accountRow struct {
		ID      string
		Name    string
		Type    string
		Initial string
	}
	data := struct {
		Accounts []accountRow
	}{}
	for _, a := range accounts {
		data.Accounts = append(data.Accounts, accountRow{
			ID:      a.ID,
			Name:    a.Name,
			Type:    string(a.Type),
			Initial: core.FormatUSD(a.InitialAmount),
		})
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "accounts_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "accounts_list.html")
		InternalServerError("Error rendering accounts").Write(w)
	}
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	account, fieldErrors := ParseAccountForm(r.Form)
	if fieldErrors != nil {
		FieldErrorsResponse(fieldErrors).Write(w)
		return
	}

	created, err := s.accounts.CreateAccount(r.Context(), account)
	if err != nil {
		slog.ErrorContext(r.Context(), "Account create error", "error", err, "account_name", account.Name)
		InternalServerError("Error saving account").Write(w)
		return
	}

	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerAccountCreated(created.ID).
		TriggerDashboardRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Account created: " + created.Name).
		BodyHTML(`<div class="success">Account created: ` + template.HTMLEscapeString(created.Name) + `</div>`).
		Write(w)
}

// handleAccountByID updates or deletes a single account
func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/accounts/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		s.updateAccount(w, r, id)
	case http.MethodDelete:
		s.deleteAccount(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request, id string) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	account, fieldErrors := ParseAccountForm(r.Form)
	if fieldErrors != nil {
		FieldErrorsResponse(fieldErrors).Write(w)
		return
	}
	account.ID = id

	if err := s.accounts.UpdateAccount(r.Context(), account); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Account not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Account update error", "error", err, "account_id", id)
		InternalServerError("Error updating account").Write(w)
		return
	}

	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Account updated").
		BodyHTML(`<div class="success">Account updated</div>`).
		Write(w)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.accounts.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Account not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Account delete error", "error", err, "account_id", id)
		InternalServerError("Error deleting account").Write(w)
		return
	}

	s.invalidateDashboards()
	NewHTMXResponse().
		TriggerAccountDeleted(id).
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Account deleted").
		BodyHTML(`<div class="success">Account deleted</div>`).
		Write(w)
}
