package util

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// AmountString renders an amount with thousands separators, e.g. "12,500.5 USDC".
func AmountString(amount decimal.Decimal, token string) string {
	places := -amount.Exponent()
	if places < 0 {
		places = 0
	}
	whole := amount.Truncate(0)
	text := humanize.Comma(whole.IntPart())
	if amount.IsNegative() && whole.IsZero() {
		text = "-" + text
	}
	if places > 0 {
		frac := strings.TrimRight(amount.Sub(whole).Abs().StringFixed(places), "0")
		if len(frac) > 2 {
			text += frac[1:]
		}
	}
	return fmt.Sprintf("%v %v", text, token)
}

// BalancesString renders all balances sorted by token.
func BalancesString(balances map[string]decimal.Decimal) string {
	if len(balances) == 0 {
		return "-"
	}
	tokens := make([]string, 0, len(balances))
	for token := range balances {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, AmountString(balances[token], token))
	}
	return strings.Join(parts, ", ")
}

func SignaturesString(signed int, required int) string {
	return fmt.Sprintf("%v of %v signatures", humanize.Comma(int64(signed)), humanize.Comma(int64(required)))
}
