package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(id, account string, typ core.TransactionType, cat core.Category, amount, date string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:        id,
		AccountID: account,
		Type:      typ,
		Name:      id,
		Category:  cat,
		Amount:    dec(amount),
		Date:      d,
	}
}

func TestFilterTransactionsWindowBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	for _, window := range WindowChoices() {
		cutoff := core.DateOf(now).AddDays(-window)
		onBoundary := tx("b", "A", core.Expense, core.CategoryFood, "1", cutoff.String())
		before := tx("o", "A", core.Expense, core.CategoryFood, "1", cutoff.AddDays(-1).String())
		after := tx("a", "A", core.Expense, core.CategoryFood, "1", cutoff.AddDays(1).String())

		got := FilterTransactions([]core.Transaction{onBoundary, before, after}, Filter{WindowDays: window}, now)
		if len(got) != 2 {
			t.Fatalf("window %d: got %d transactions, want 2", window, len(got))
		}
		if got[0].ID != "b" || got[1].ID != "a" {
			t.Fatalf("window %d: boundary transaction dropped or order changed: %v", window, got)
		}
	}
}

func TestFilterTransactionsFields(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", "A", core.Income, core.CategoryIncome, "50", "2024-05-20"),
		tx("2", "A", core.Expense, core.CategoryFood, "30", "2024-05-21"),
		tx("3", "B", core.Expense, core.CategoryHouse, "40", "2024-05-22"),
	}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all wildcard", Filter{}, []string{"1", "2", "3"}},
		{"by account", Filter{AccountID: "B"}, []string{"3"}},
		{"by type expense", Filter{Type: "expense"}, []string{"2", "3"}},
		{"by type income", Filter{Type: "income"}, []string{"1"}},
		{"by category", Filter{Category: "food"}, []string{"2"}},
		{"combined", Filter{AccountID: "A", Type: "expense"}, []string{"2"}},
		{"no match", Filter{AccountID: "C"}, nil},
	}
	for _, tc := range cases {
		got := FilterTransactions(txs, tc.filter, now)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %d, want %d", tc.name, len(got), len(tc.want))
			continue
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Errorf("%s: position %d got %s, want %s", tc.name, i, got[i].ID, id)
			}
		}
	}
}

// The worked scenario from the design discussion: one account with a
// starting balance, one income and one expense inside a 365-day window.
func TestScenarioSingleAccount(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	accounts := []core.Account{
		{ID: "A", Name: "Main", Type: core.AccountBank, InitialAmount: dec("100")},
	}
	txs := []core.Transaction{
		tx("1", "A", core.Income, core.CategoryIncome, "50", "2024-01-01"),
		tx("2", "A", core.Expense, core.CategoryFood, "30", "2024-01-02"),
	}

	filtered := FilterTransactions(txs, Filter{WindowDays: 365}, now)
	if len(filtered) != 2 {
		t.Fatalf("filtered: got %d, want 2", len(filtered))
	}

	m := ComputeSummary(filtered, accounts)
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"total income", m.TotalIncome, "50"},
		{"total expenses", m.TotalExpenses, "30"},
		{"net amount", m.NetAmount, "20"},
		{"total balance", m.TotalBalance, "120"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
	if m.TransactionCount != 2 {
		t.Errorf("transaction count: got %d, want 2", m.TransactionCount)
	}

	cats := Categorize(filtered)
	if len(cats) != 1 || cats[0].Category != "food" || !cats[0].Amount.Equal(dec("30")) {
		t.Fatalf("category totals: got %+v", cats)
	}

	days := BucketByDay(filtered)
	if len(days) != 2 {
		t.Fatalf("daily buckets: got %d, want 2", len(days))
	}
	if days[0].Date.String() != "2024-01-01" || !days[0].Income.Equal(dec("50")) || !days[0].Expenses.IsZero() {
		t.Errorf("bucket 0: got %+v", days[0])
	}
	if days[1].Date.String() != "2024-01-02" || !days[1].Expenses.Equal(dec("30")) || !days[1].Income.IsZero() {
		t.Errorf("bucket 1: got %+v", days[1])
	}
}

func TestEmptyInputs(t *testing.T) {
	accounts := []core.Account{
		{ID: "A", InitialAmount: dec("100")},
		{ID: "B", InitialAmount: dec("25.50")},
	}
	m := ComputeSummary(nil, accounts)
	if !m.TotalIncome.IsZero() || !m.TotalExpenses.IsZero() || !m.NetAmount.IsZero() {
		t.Fatalf("expected zero aggregates, got %+v", m)
	}
	if !m.TotalBalance.Equal(dec("125.50")) {
		t.Fatalf("balance should be sum of initial amounts, got %s", m.TotalBalance)
	}
	if m.TransactionCount != 0 {
		t.Fatalf("count: got %d", m.TransactionCount)
	}
	if got := BucketByDay(nil); len(got) != 0 {
		t.Fatalf("buckets: got %d", len(got))
	}
	if got := Categorize(nil); len(got) != 0 {
		t.Fatalf("categories: got %d", len(got))
	}
	if got := DistinctCategories(nil); len(got) != 0 {
		t.Fatalf("distinct: got %d", len(got))
	}
}

func TestExpenseFilterZeroesIncome(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", "A", core.Income, core.CategoryIncome, "500", "2024-05-20"),
		tx("2", "A", core.Expense, core.CategoryFood, "30", "2024-05-21"),
	}
	filtered := FilterTransactions(txs, Filter{Type: "expense"}, now)
	m := ComputeSummary(filtered, nil)
	if !m.TotalIncome.IsZero() {
		t.Fatalf("income should be zero under expense filter, got %s", m.TotalIncome)
	}
	if !m.TotalExpenses.Equal(dec("30")) {
		t.Fatalf("expenses: got %s", m.TotalExpenses)
	}
	for _, b := range BucketByDay(filtered) {
		if !b.Income.IsZero() {
			t.Fatalf("bucket %s has income %s", b.Date, b.Income)
		}
	}
}

func TestNetIdentityAndCategorySum(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", "A", core.Income, core.CategoryIncome, "10.10", "2024-05-20"),
		tx("2", "A", core.Expense, core.CategoryFood, "3.33", "2024-05-21"),
		tx("3", "A", core.Expense, core.CategoryHouse, "4.44", "2024-05-22"),
		tx("4", "B", core.Expense, core.CategoryFood, "1.23", "2024-05-23"),
	}
	filtered := FilterTransactions(txs, Filter{}, now)
	m := ComputeSummary(filtered, nil)
	if !m.TotalIncome.Sub(m.TotalExpenses).Equal(m.NetAmount) {
		t.Fatalf("net identity broken: %s - %s != %s", m.TotalIncome, m.TotalExpenses, m.NetAmount)
	}

	// With the category wildcard, the category totals sum back to the
	// expense total.
	sum := decimal.Zero
	for _, c := range Categorize(filtered) {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(m.TotalExpenses) {
		t.Fatalf("category sum %s != total expenses %s", sum, m.TotalExpenses)
	}
}

func TestCategorizeSortAndFold(t *testing.T) {
	txs := []core.Transaction{
		tx("1", "A", core.Expense, core.CategoryFood, "10", "2024-05-01"),
		tx("2", "A", core.Expense, "mystery", "10", "2024-05-01"),
		tx("3", "A", core.Expense, core.CategoryHouse, "25", "2024-05-02"),
		tx("4", "A", core.Income, core.CategoryIncome, "99", "2024-05-02"),
	}
	got := Categorize(txs)
	if len(got) != 3 {
		t.Fatalf("got %d totals, want 3 (income excluded)", len(got))
	}
	if got[0].Category != "house" {
		t.Fatalf("descending sort: first is %s", got[0].Category)
	}
	// Equal amounts keep encounter order: food before the folded bucket.
	if got[1].Category != "food" || got[2].Category != core.UncategorizedLabel {
		t.Fatalf("stable tie order: got %s, %s", got[1].Category, got[2].Category)
	}
}

func TestBucketByDayCapAndOrder(t *testing.T) {
	var txs []core.Transaction
	start := core.NewDate(2024, 1, 1)
	// 40 distinct dates, inserted newest first to prove sorting.
	for i := 39; i >= 0; i-- {
		d := start.AddDays(i)
		txs = append(txs, tx(d.String(), "A", core.Expense, core.CategoryFood, "1", d.String()))
	}
	got := BucketByDay(txs)
	if len(got) != 30 {
		t.Fatalf("cap: got %d buckets, want 30", len(got))
	}
	// The cap keeps the tail of the ascending sequence.
	if got[0].Date.String() != start.AddDays(10).String() {
		t.Fatalf("first bucket: got %s", got[0].Date)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Date.After(got[i-1].Date.Time) {
			t.Fatalf("not ascending at %d: %s then %s", i, got[i-1].Date, got[i].Date)
		}
	}
}

func TestDistinctCategories(t *testing.T) {
	txs := []core.Transaction{
		tx("1", "A", core.Expense, core.CategoryFood, "1", "2024-05-01"),
		tx("2", "A", core.Expense, core.CategoryHouse, "1", "2024-05-02"),
		tx("3", "A", core.Expense, core.CategoryFood, "1", "2024-05-03"),
		tx("4", "A", core.Expense, "mystery", "1", "2024-05-04"),
	}
	got := DistinctCategories(txs)
	want := []string{"Food", "House", core.UncategorizedLabel}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{}.Normalize()
	if f.AccountID != All || f.Type != All || f.Category != All || f.WindowDays != DefaultWindowDays {
		t.Fatalf("defaults: got %+v", f)
	}
	f = Filter{WindowDays: 14}.Normalize()
	if f.WindowDays != DefaultWindowDays {
		t.Fatalf("invalid window should snap to default, got %d", f.WindowDays)
	}
	f = Filter{WindowDays: 365}.Normalize()
	if f.WindowDays != 365 {
		t.Fatalf("valid window changed: %d", f.WindowDays)
	}
}

// Aggregations are pure; running one twice on the same input yields
// identical output.
func TestIdempotence(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", "A", core.Income, core.CategoryIncome, "50", "2024-05-20"),
		tx("2", "A", core.Expense, core.CategoryFood, "30", "2024-05-21"),
	}
	a := FilterTransactions(txs, Filter{}, now)
	b := FilterTransactions(txs, Filter{}, now)
	if len(a) != len(b) {
		t.Fatal("filter not idempotent")
	}
	ma, mb := ComputeSummary(a, nil), ComputeSummary(b, nil)
	if !ma.NetAmount.Equal(mb.NetAmount) || ma.TransactionCount != mb.TransactionCount {
		t.Fatal("summary not idempotent")
	}
}
