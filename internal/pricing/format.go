package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatVND renders an amount the way receipts show it: no decimals, dot
// thousands separators, dong sign.
func FormatVND(amount float64) string {
	n := decimal.NewFromFloat(amount).Round(0).IntPart()

	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	out := make([]byte, 0, len(digits)+len(digits)/3+4)
	if neg {
		out = append(out, '-')
	}
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	return string(out) + " ₫"
}
