package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"500", 50000, true},
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"99999999.99", 9_999_999_999, true},
		{"100000000", 0, false}, // above cap
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false}, // rounds to zero
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},

		// thousands-grouped input must be rejected, not read as a
		// decimal fraction
		{"1,000", 0, false},
		{"12,345", 0, false},
		{"1,234.50", 0, false},
		{"1,000,000", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{50000, "Rs.500.00"},
		{123450, "Rs.1,234.50"},
		{1, "Rs.0.01"},
		{100000000, "Rs.1,000,000.00"},
		{999, "Rs.9.99"},
	}
	for _, tc := range cases {
		if got := FormatMoney(Money{Cents: tc.cents}); got != tc.out {
			t.Errorf("FormatMoney(%d) = %q, want %q", tc.cents, got, tc.out)
		}
	}
}
