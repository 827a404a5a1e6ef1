package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatVolume renders $24.8M, $1.2K or a plain grouped dollar amount.
func FormatVolume(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(million):
		return "$" + v.Div(million).StringFixed(1) + "M"
	case v.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).StringFixed(1) + "K"
	}
	return FormatCurrency(v)
}

// FormatCurrency renders a whole-dollar amount with thousands separators.
func FormatCurrency(v decimal.Decimal) string {
	return "$" + FormatNumber(v.Round(0).IntPart())
}

func FormatNumber(n int64) string {
	raw := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}
	var b strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
