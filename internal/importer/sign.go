package importer

import (
	"math"
	"strings"
)

// SignRule maps actions containing Contains (case-insensitive) to the sign of
// their cash effect on the account.
type SignRule struct {
	Contains string
	Sign     float64
}

// DefaultSignRules is the action → sign table, evaluated in order, first match
// wins. Amounts are signed from the account's cash perspective: money entering
// the account is positive, money leaving it is negative. This is the account
// perspective, so a deposit is positive and a withdrawal negative; pass other
// rules to Normalizer.WithSignRules for the investor perspective.
var DefaultSignRules = []SignRule{
	{Contains: "buy", Sign: -1},
	{Contains: "sell", Sign: 1},
	{Contains: "withdraw", Sign: -1},
	{Contains: "deposit", Sign: 1},
	{Contains: "dividend", Sign: 1},
	{Contains: "interest", Sign: 1},
	{Contains: "cashback", Sign: 1},
	{Contains: "fee", Sign: -1},
	{Contains: "tax", Sign: -1},
}

// ApplySign returns raw signed according to the first rule matching action.
// Unknown actions keep the sign found in the export.
func ApplySign(rules []SignRule, action string, raw float64) float64 {
	if raw == 0 {
		return 0
	}
	a := strings.ToLower(action)
	for _, rule := range rules {
		if strings.Contains(a, rule.Contains) {
			return rule.Sign * math.Abs(raw)
		}
	}
	return raw
}

// ActionContains reports whether action contains term, ignoring case.
func ActionContains(action, term string) bool {
	return strings.Contains(strings.ToLower(action), term)
}
