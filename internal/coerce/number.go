package coerce

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// amountFormat groups thousands with "." and uses "," for two decimals.
const amountFormat = "#.###,##"

// exactFloatLimit bounds amounts that survive the float64 round trip
// humanize.FormatFloat needs.
var exactFloatLimit = decimal.New(1, 15)

// ParseAmount converts a numeric cell into an exact decimal. SQL Server
// DECIMAL columns arrive as text bytes, so strings are parsed rather than
// converted through float64.
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return t, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(t), true
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt32(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case bool:
		return decimal.Decimal{}, false
	}

	s, ok := Text(v)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Number renders an amount with two decimals in the Central-European style,
// 12345.67 becoming "12.345,67". Values that do not parse fall back to their
// raw string form; nil and blank values are absent.
func Number(v any) (string, bool) {
	d, ok := ParseAmount(v)
	if !ok {
		return rawOrAbsent(v)
	}
	d = d.Round(2)
	if d.Abs().GreaterThanOrEqual(exactFloatLimit) {
		return groupFixed(d.StringFixed(2)), true
	}
	return humanize.FormatFloat(amountFormat, d.InexactFloat64()), true
}

// groupFixed regroups a "-1234.56" string as "-1.234,56".
func groupFixed(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
