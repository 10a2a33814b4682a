package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{"0", "0", false},
		{" 7.5 ", "7.5", false},
		{"12.345", "12.345", false}, // no rounding on parse
		{"", "", true},
		{"abc", "", true},
		{"-3", "", true},
		{"+3", "", true},
		{"1.2.3", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err != ErrInvalidAmount {
				t.Errorf("ParseAmount(%q): expected ErrInvalidAmount, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	if got := CoerceAmount("19.99"); !got.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("CoerceAmount valid: got %s", got)
	}
	// Bad stored values aggregate as zero instead of failing the whole
	// dashboard.
	for _, in := range []string{"", "garbage", "1.2.3"} {
		if got := CoerceAmount(in); !got.IsZero() {
			t.Errorf("CoerceAmount(%q) = %s, want 0", in, got)
		}
	}
	// Negative stored values pass through; coercion is about parse
	// failures, not range checks.
	if got := CoerceAmount("-4"); !got.Equal(decimal.NewFromInt(-4)) {
		t.Fatalf("CoerceAmount(-4) = %s", got)
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"1234.56", "$1,234.56"},
		{"1234567.891", "$1,234,567.89"},
		{"-3", "-$3.00"},
		{"999", "$999.00"},
		{"1000", "$1,000.00"},
	}
	for _, tc := range cases {
		if got := FormatUSD(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Errorf("FormatUSD(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryLifeEntertainment.Label(); got != "Life & Entertainment" {
		t.Fatalf("label: got %s", got)
	}
	if got := Category("crypto").Label(); got != UncategorizedLabel {
		t.Fatalf("unknown category: got %s", got)
	}
	if got := Category("").Label(); got != UncategorizedLabel {
		t.Fatalf("empty category: got %s", got)
	}
	if len(Categories()) != len(categoryLabels) {
		t.Fatal("selector order out of sync with label map")
	}
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("category %q not valid", c)
		}
	}
}
