// Package importer turns raw broker export rows into normalized transactions.
//
// Every logical field is resolved through an ordered list of accepted column
// names (FieldAliases), so new broker header variants are added as data rather
// than as parsing logic.
package importer

import "strings"

// RawRow is one broker export record keyed by column header.
type RawRow map[string]string

// Field is a logical transaction field.
type Field string

const (
	FieldTime             Field = "time"
	FieldAction           Field = "action"
	FieldAmount           Field = "amount"
	FieldCurrencyOfAmount Field = "currencyOfAmount"
	FieldCurrencyOfPrice  Field = "currencyOfPrice"
	FieldPrice            Field = "price"
	FieldShares           Field = "shares"
	FieldTicker           Field = "ticker"
	FieldName             Field = "name"
	FieldSplitRatio       Field = "splitRatio"
	FieldFees             Field = "fees"
	FieldTaxes            Field = "taxes"
)

// FieldAliases lists, per logical field, the accepted column names in
// priority order. For single-valued fields the first non-empty column wins;
// FieldFees and FieldTaxes sum every listed column.
var FieldAliases = map[Field][]string{
	FieldTime:             {"Time", "Date", "Execution time"},
	FieldAction:           {"Action", "Type"},
	FieldAmount:           {"Amount", "Amount value", "Total amount", "Total"},
	FieldCurrencyOfAmount: {"Currency (Amount)", "Currency (Total)", "Currency"},
	FieldCurrencyOfPrice:  {"Currency (Price / share)"},
	FieldPrice:            {"Price / share"},
	FieldShares:           {"No. of shares"},
	FieldTicker:           {"Ticker"},
	FieldName:             {"Name"},
	FieldSplitRatio:       {"Split ratio", "Ratio", "Split", "Reverse split"},
	FieldFees:             {"Fee amount", "Deposit fee", "Charge amount", "Currency conversion fee", "Finra fee"},
	FieldTaxes:            {"Tax amount", "Withholding tax", "French transaction tax", "Stamp duty reserve tax"},
}

// Lookup returns the first non-empty value among the columns aliased to
// field. Header matching ignores case and surrounding whitespace.
func (r RawRow) Lookup(aliases map[Field][]string, field Field) (string, bool) {
	for _, column := range aliases[field] {
		if v, ok := r.column(column); ok {
			return v, true
		}
	}
	return "", false
}

// LookupAll returns every non-empty value among the columns aliased to field,
// in alias order.
func (r RawRow) LookupAll(aliases map[Field][]string, field Field) []string {
	var values []string
	for _, column := range aliases[field] {
		if v, ok := r.column(column); ok {
			values = append(values, v)
		}
	}
	return values
}

func (r RawRow) column(name string) (string, bool) {
	if v, ok := r[name]; ok {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
		return "", false
	}
	for header, v := range r {
		if strings.EqualFold(strings.TrimSpace(header), name) {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}
