package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"24800000", "$24.8M"},
		{"1000000", "$1.0M"},
		{"1234", "$1.2K"},
		{"999.6", "$1,000"},
		{"42", "$42"},
		{"0", "$0"},
	}
	for _, tt := range tests {
		if got := FormatVolume(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatVolume(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 12847: "12,847", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}
