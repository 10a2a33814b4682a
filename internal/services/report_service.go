package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/reports"
	"fintrack/internal/store"
)

// ReportService assembles dashboard data from stored accounts and transactions
type ReportService struct {
	store store.Store
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{store: st}
}

// Dashboard is everything one dashboard render needs.
type Dashboard struct {
	Filter       reports.Filter
	Summary      reports.SummaryMetrics
	Daily        []reports.DailyBucket
	Categories   []reports.CategoryTotal
	Accounts     []core.Account
	Transactions []core.Transaction
	CategoryList []string
}

// BuildDashboard loads the data set and runs every aggregation for the filter
func (s *ReportService) BuildDashboard(ctx context.Context, f reports.Filter, now time.Time) (Dashboard, error) {
	f = f.Normalize()

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list accounts: %w", err)
	}

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}

	filtered := reports.FilterTransactions(txs, f, now)

	return Dashboard{
		Filter:       f,
		Summary:      reports.ComputeSummary(filtered, accounts),
		Daily:        reports.BucketByDay(filtered),
		Categories:   reports.Categorize(filtered),
		Accounts:     accounts,
		Transactions: filtered,
		CategoryList: reports.DistinctCategories(txs),
	}, nil
}
