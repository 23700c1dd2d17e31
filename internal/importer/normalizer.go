package importer

import (
	"math"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// timeLayouts are tried in order when parsing the execution time column.
var timeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// Normalizer converts raw export rows into transactions. The zero value is
// not usable; use NewNormalizer.
type Normalizer struct {
	aliases   map[Field][]string
	signRules []SignRule
}

// NewNormalizer returns a Normalizer using FieldAliases and DefaultSignRules.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		aliases:   FieldAliases,
		signRules: DefaultSignRules,
	}
}

// WithSignRules returns a copy of n using rules instead of the default table.
func (n *Normalizer) WithSignRules(rules []SignRule) *Normalizer {
	return &Normalizer{aliases: n.aliases, signRules: rules}
}

// WithAliases returns a copy of n resolving columns through aliases.
func (n *Normalizer) WithAliases(aliases map[Field][]string) *Normalizer {
	return &Normalizer{aliases: aliases, signRules: n.signRules}
}

// NormalizeRow normalizes a row with the default tables.
func NormalizeRow(row RawRow) model.Transaction {
	return NewNormalizer().Normalize(row)
}

// Normalize converts one raw row into a Transaction. It never fails: every
// field that cannot be read degrades to its safe default.
func (n *Normalizer) Normalize(row RawRow) model.Transaction {
	get := func(f Field) string {
		v, _ := row.Lookup(n.aliases, f)
		return v
	}

	action := get(FieldAction)

	var amount float64
	if raw, ok := ParseOptionalNumber(get(FieldAmount)); ok {
		amount = ApplySign(n.signRules, action, raw)
	}

	currencyOfAmount := normalizeCurrency(get(FieldCurrencyOfAmount))
	currencyOfPrice := normalizeCurrency(get(FieldCurrencyOfPrice))
	if currencyOfPrice == "" {
		currencyOfPrice = currencyOfAmount
	}

	return model.Transaction{
		Time:             parseTime(get(FieldTime)),
		Action:           action,
		CurrencyOfAmount: currencyOfAmount,
		CurrencyOfPrice:  currencyOfPrice,
		Amount:           amount,
		Fees:             sumAbs(row.LookupAll(n.aliases, FieldFees)),
		Taxes:            sumAbs(row.LookupAll(n.aliases, FieldTaxes)),
		Price:            OptionalNumber(get(FieldPrice)),
		Shares:           OptionalNumber(get(FieldShares)),
		Ticker:           strings.TrimSpace(get(FieldTicker)),
		Name:             strings.TrimSpace(get(FieldName)),
		SplitRatio:       ParseSplitRatio(get(FieldSplitRatio)),
	}
}

// NormalizeRows normalizes every row, numbering them from 1 in input order.
func (n *Normalizer) NormalizeRows(rows []RawRow) []model.Transaction {
	txs := make([]model.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = n.Normalize(row)
		txs[i].RowNumber = i + 1
	}
	return txs
}

func sumAbs(values []string) float64 {
	var total float64
	for _, v := range values {
		if f, ok := ParseOptionalNumber(v); ok {
			total += math.Abs(f)
		}
	}
	return total
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parseTime(text string) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
