package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10.45", 1045},
		{"0.01", 1},
		{"100", 10000},
		{"100.5", 10050},
		{"0.019", 1},
		{"1.999", 199},
		{"1000000000000", 100000000000000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ToMinorUnits(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("ToMinorUnits(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{1045, "10.45"},
		{1, "0.01"},
		{0, "0.00"},
		{10000, "100.00"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		if got := FormatMinorUnits(tt.in); got != tt.want {
			t.Errorf("FormatMinorUnits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, minor := range []int64{1, 99, 1045, 123456789} {
		if got := ToMinorUnits(FromMinorUnits(minor)); got != minor {
			t.Errorf("round trip of %d gave %d", minor, got)
		}
	}
}
