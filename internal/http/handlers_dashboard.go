package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/reports"
	"fintrack/internal/services"
)

var hundred = decimal.NewFromInt(100)

// handleIndex renders the main dashboard page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	accounts, err := s.accounts.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts error", "error", err)
	}

	type categoryOption struct {
		Value string
		Label string
	}
	categories := make([]categoryOption, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		categories = append(categories, categoryOption{Value: string(c), Label: c.Label()})
	}

	data := struct {
		Accounts     []core.Account
		AccountTypes []core.AccountType
		Categories   []categoryOption
		Windows      []int
		Today        string
	}{
		Accounts:     accounts,
		AccountTypes: core.AccountTypes(),
		Categories:   categories,
		Windows:      reports.WindowChoices(),
		Today:        core.DateOf(time.Now()).String(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dashboardView is the template-friendly shape of a dashboard.
type dashboardView struct {
	Filter       reports.Filter
	TotalBalance string
	TotalIncome  string
	TotalExpense string
	NetAmount    string
	NetClass     string
	Count        int
	Daily        []dailyRow
	Categories   []categoryRow
	CategoryList []string
	Transactions []transactionRow
}

type dailyRow struct {
	Date     string
	Expenses string
	Income   string
}

type categoryRow struct {
	Name   string
	Amount string
	Width  int
}

type transactionRow struct {
	ID       string
	Name     string
	Type     string
	Category string
	Amount   string
	Date     string
}

func buildDashboardView(d services.Dashboard) dashboardView {
	view := dashboardView{
		Filter:       d.Filter,
		TotalBalance: core.FormatUSD(d.Summary.TotalBalance),
		TotalIncome:  core.FormatUSD(d.Summary.TotalIncome),
		TotalExpense: core.FormatUSD(d.Summary.TotalExpenses),
		NetAmount:    core.FormatUSD(d.Summary.NetAmount),
		Count:        d.Summary.TransactionCount,
		CategoryList: d.CategoryList,
	}

	if d.Summary.NetAmount.IsNegative() {
		view.NetClass = "stat-value--negative"
	} else if d.Summary.NetAmount.IsPositive() {
		view.NetClass = "stat-value--positive"
	}

	for _, b := range d.Daily {
		view.Daily = append(view.Daily, dailyRow{
			Date:     b.Date.String(),
			Expenses: core.FormatUSD(b.Expenses),
			Income:   core.FormatUSD(b.Income),
		})
	}

	// Bar widths scale against the largest category.
	var max = d.Summary.TotalExpenses
	if len(d.Categories) > 0 {
		max = d.Categories[0].Amount
	}
	for _, c := range d.Categories {
		width := 0
		if max.IsPositive() && c.Amount.IsPositive() {
			width = int(c.Amount.Div(max).Mul(hundred).IntPart())
			if width > 0 && width < 2 { // keep tiny slices visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		label := core.Category(c.Category).Label()
		view.Categories = append(view.Categories, categoryRow{
			Name:   label,
			Amount: core.FormatUSD(c.Amount),
			Width:  width,
		})
	}

	for _, tx := range d.Transactions {
		view.Transactions = append(view.Transactions, transactionRow{
			ID:       tx.ID,
			Name:     tx.Name,
			Type:     string(tx.Type),
			Category: tx.Category.Label(),
			Amount:   core.FormatUSD(tx.Amount),
			Date:     tx.Date.String(),
		})
	}

	return view
}

// handleDashboardPartial renders the dashboard partial for HTMX swaps
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	f := ParseFilterParams(r.URL.Query())
	d, err := s.getDashboard(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err,
			log.FieldAccountID, f.AccountID,
			log.FieldWindowDays, f.WindowDays)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error loading dashboard</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Balance: ` + core.FormatUSD(d.Summary.TotalBalance) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", buildDashboardView(d)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error rendering dashboard</div></section>`))
	}
}

// handleDashboardJSON returns the dashboard aggregates for chart rendering
func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	f := ParseFilterParams(r.URL.Query())
	d, err := s.getDashboard(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err,
			log.FieldAccountID, f.AccountID, log.FieldWindowDays, f.WindowDays)
		writeJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "failed to build dashboard"})
		return
	}

	type jsonDaily struct {
		Date     string `json:"date"`
		Expenses string `json:"expenses"`
		Income   string `json:"income"`
	}
	type jsonCategory struct {
		Category string `json:"category"`
		Amount   string `json:"amount"`
	}
	payload := struct {
		Summary struct {
			TotalExpenses    string `json:"total_expenses"`
			TotalIncome      string `json:"total_income"`
			NetAmount        string `json:"net_amount"`
			TotalBalance     string `json:"total_balance"`
			TransactionCount int    `json:"transaction_count"`
		} `json:"summary"`
		Daily           []jsonDaily    `json:"daily"`
		Categories      []jsonCategory `json:"categories"`
		CategoryOptions []string       `json:"category_options"`
	}{
		Daily:           make([]jsonDaily, 0, len(d.Daily)),
		Categories:      make([]jsonCategory, 0, len(d.Categories)),
		CategoryOptions: d.CategoryList,
	}
	payload.Summary.TotalExpenses = d.Summary.TotalExpenses.StringFixed(2)
	payload.Summary.TotalIncome = d.Summary.TotalIncome.StringFixed(2)
	payload.Summary.NetAmount = d.Summary.NetAmount.StringFixed(2)
	payload.Summary.TotalBalance = d.Summary.TotalBalance.StringFixed(2)
	payload.Summary.TransactionCount = d.Summary.TransactionCount

	for _, b := range d.Daily {
		payload.Daily = append(payload.Daily, jsonDaily{
			Date:     b.Date.String(),
			Expenses: b.Expenses.StringFixed(2),
			Income:   b.Income.StringFixed(2),
		})
	}
	for _, c := range d.Categories {
		payload.Categories = append(payload.Categories, jsonCategory{
			Category: c.Category,
			Amount:   c.Amount.StringFixed(2),
		})
	}

	writeJSON(w, r, http.StatusOK, payload)
}
