package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPattern matches an amount as printed on the notes: dot separated
// thousands, comma decimals and an optional dash on either side. It has no
// capturing groups so it can be embedded in larger expressions.
const AmountPattern = `-*[0-9]+(?:\.[0-9]{3})*(?:,[0-9]+)?-*`

// ParseAmount converts "1.234,56" into 1234.56. A leading or trailing dash
// makes the amount negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-") || strings.HasSuffix(raw, "-")
	v := strings.Trim(raw, "-")
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatAmount renders d with a comma as the decimal separator and no
// thousands grouping, e.g. 1234.5 -> "1234,5".
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}
