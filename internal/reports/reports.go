// Package reports computes the dashboard aggregates: filtered
// transaction sets, summary totals, per-day series and per-category
// breakdowns. Every function is pure: no I/O, no shared state, same
// inputs always produce the same outputs.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// All is the wildcard filter value.
const All = "all"

// DefaultWindowDays is used when no window is selected.
const DefaultWindowDays = 30

// maxDailyBuckets caps the daily series to a fixed display window,
// independent of the filter's trailing window.
const maxDailyBuckets = 30

// windowChoices are the selectable trailing windows, in days.
var windowChoices = []int{7, 30, 90, 365}

// Filter scopes the dashboard to an account, transaction type,
// category and trailing time window. Zero values mean "all" (and the
// default window).
type Filter struct {
	AccountID  string
	Type       string
	Category   string
	WindowDays int
}

// Normalize fills unset fields with their wildcard defaults and snaps
// the window to a valid choice.
func (f Filter) Normalize() Filter {
	if f.AccountID == "" {
		f.AccountID = All
	}
	if f.Type == "" {
		f.Type = All
	}
	if f.Category == "" {
		f.Category = All
	}
	if !ValidWindow(f.WindowDays) {
		f.WindowDays = DefaultWindowDays
	}
	return f
}

// ValidWindow reports whether days is a selectable window.
func ValidWindow(days int) bool {
	for _, w := range windowChoices {
		if days == w {
			return true
		}
	}
	return false
}

// WindowChoices returns the selectable windows in ascending order.
func WindowChoices() []int {
	out := make([]int, len(windowChoices))
	copy(out, windowChoices)
	return out
}

// SummaryMetrics are the headline dashboard numbers for the current
// filtered scope.
type SummaryMetrics struct {
	TotalExpenses    decimal.Decimal
	TotalIncome      decimal.Decimal
	NetAmount        decimal.Decimal
	TotalBalance     decimal.Decimal
	TransactionCount int
}

// DailyBucket accumulates expense and income amounts for one calendar
// date. Dates with no transactions are not synthesized; a continuous
// chart axis is a presentation concern.
type DailyBucket struct {
	Date     core.Date
	Expenses decimal.Decimal
	Income   decimal.Decimal
}

// CategoryTotal is the summed expense amount for one category value.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// FilterTransactions retains transactions inside the trailing window
// that match every non-wildcard filter field. The cutoff is boundary
// inclusive: a transaction dated exactly now-WindowDays days ago is
// kept. Order is preserved; the result is empty, never nil semantics
// aside, when nothing matches.
func FilterTransactions(txs []core.Transaction, f Filter, now time.Time) []core.Transaction {
	f = f.Normalize()
	cutoff := core.DateOf(now).AddDays(-f.WindowDays)

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.OnOrAfter(cutoff) {
			continue
		}
		if f.AccountID != All && tx.AccountID != f.AccountID {
			continue
		}
		if f.Type != All && string(tx.Type) != f.Type {
			continue
		}
		if f.Category != All && string(tx.Category) != f.Category {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ComputeSummary totals the filtered set and derives the balance.
//
// TotalBalance adds the net of the FILTERED transactions to the
// initial amounts of ALL accounts, unfiltered. When an account filter
// is active this can disagree with "balance of the selected account
// only"; the behavior is kept deliberately (see DESIGN.md).
func ComputeSummary(filtered []core.Transaction, accounts []core.Account) SummaryMetrics {
	m := SummaryMetrics{
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
	}
	for _, tx := range filtered {
		if tx.Type == core.Expense {
			m.TotalExpenses = m.TotalExpenses.Add(tx.Amount)
		} else {
			m.TotalIncome = m.TotalIncome.Add(tx.Amount)
		}
	}
	m.NetAmount = m.TotalIncome.Sub(m.TotalExpenses)

	base := decimal.Zero
	for _, acc := range accounts {
		base = base.Add(acc.InitialAmount)
	}
	m.TotalBalance = base.Add(m.NetAmount)
	m.TransactionCount = len(filtered)
	return m
}

// BucketByDay groups the filtered set by calendar date, ascending,
// keeping only the most recent maxDailyBuckets distinct dates.
func BucketByDay(filtered []core.Transaction) []DailyBucket {
	byDate := make(map[string]*DailyBucket)
	for _, tx := range filtered {
		key := tx.Date.String()
		b, ok := byDate[key]
		if !ok {
			b = &DailyBucket{
				Date:     tx.Date,
				Expenses: decimal.Zero,
				Income:   decimal.Zero,
			}
			byDate[key] = b
		}
		if tx.Type == core.Expense {
			b.Expenses = b.Expenses.Add(tx.Amount)
		} else {
			b.Income = b.Income.Add(tx.Amount)
		}
	}

	out := make([]DailyBucket, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	if len(out) > maxDailyBuckets {
		out = out[len(out)-maxDailyBuckets:]
	}
	return out
}

// Categorize sums expense amounts per category, folding unknown or
// missing values into the Uncategorized bucket, sorted descending by
// amount. Ties keep first-encountered order.
func Categorize(filtered []core.Transaction) []CategoryTotal {
	totals := make(map[string]int) // category -> index into out
	out := make([]CategoryTotal, 0)
	for _, tx := range filtered {
		if tx.Type != core.Expense {
			continue
		}
		key := string(tx.Category)
		if !tx.Category.Valid() {
			key = core.UncategorizedLabel
		}
		idx, ok := totals[key]
		if !ok {
			idx = len(out)
			totals[key] = idx
			out = append(out, CategoryTotal{Category: key, Amount: decimal.Zero})
		}
		out[idx].Amount = out[idx].Amount.Add(tx.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// DistinctCategories returns the display labels of every category
// present across ALL transactions (not just the filtered set),
// deduplicated in first-occurrence order. Used to populate the
// category filter selector.
func DistinctCategories(txs []core.Transaction) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tx := range txs {
		label := tx.Category.Label()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
