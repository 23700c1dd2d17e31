package importer

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped before a number is parsed, together with
// whitespace, apostrophes and underscores used as digit grouping.
const currencySymbols = "€$£¥₹₩₽₺"

// ParseOptionalNumber parses a broker export number. It returns false for
// empty or unparsable text.
//
// Rules:
//   - surrounding whitespace and currency symbols are ignored
//   - a leading '+' or '-' sign is accepted, as are accounting parentheses "(12.50)";
//     a minus inside parentheses is redundant, "(-5)" is -5
//   - spaces, apostrophes and underscores are thousands separators
//   - when both ',' and '.' appear, the last one is the decimal separator and
//     the other is a thousands separator
//   - a separator occurring more than once is a thousands separator
//   - a single '.' is a decimal separator
//   - a single ',' followed by exactly three digits and preceded by a non-zero
//     integer part is a thousands separator ("1,234"), otherwise it is a
//     decimal separator ("12,5", "0,125")
func ParseOptionalNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	negative, accounting := false, false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative, accounting = true, true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(currencySymbols, r):
			return -1
		case r == ' ' || r == '\u00a0' || r == '\u202f' || r == '\'' || r == '’' || r == '_':
			return -1
		}
		return r
	}, s)

	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' && !accounting {
			negative = true
		}
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, false
		}
	}

	s, ok := normalizeSeparators(s)
	if !ok {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// OptionalNumber is ParseOptionalNumber returning nil when the text does not
// hold a number.
func OptionalNumber(text string) *float64 {
	f, ok := ParseOptionalNumber(text)
	if !ok {
		return nil
	}
	return &f
}

// normalizeSeparators rewrites s, made of digits and separators only, into a
// dot-decimal string without grouping.
func normalizeSeparators(s string) (string, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	var decimalSep string
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			decimalSep = "."
			s = strings.ReplaceAll(s, ",", "")
		} else {
			decimalSep = ","
			s = strings.ReplaceAll(s, ".", "")
		}
		if strings.Count(s, decimalSep) > 1 {
			return "", false
		}
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots == 1:
		decimalSep = "."
	case commas == 1:
		idx := strings.Index(s, ",")
		intPart, fracPart := s[:idx], s[idx+1:]
		if len(fracPart) == 3 && strings.TrimLeft(intPart, "0") != "" {
			s = intPart + fracPart
		} else {
			decimalSep = ","
		}
	}

	if decimalSep == "," {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.Trim(s, ".") == "" {
		return "", false
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	return s, true
}

// ParseSplitRatio parses a corporate-action split ratio: "A:B" and "A/B"
// (both parts positive, ratio A/B) or a bare positive number. Anything else
// yields nil.
func ParseSplitRatio(text string) *float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}

	for _, sep := range []string{":", "/"} {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.Split(s, sep)
		if len(parts) != 2 {
			return nil
		}
		num, okNum := ParseOptionalNumber(parts[0])
		den, okDen := ParseOptionalNumber(parts[1])
		if !okNum || !okDen || num <= 0 || den <= 0 {
			return nil
		}
		ratio := num / den
		return &ratio
	}

	ratio, ok := ParseOptionalNumber(s)
	if !ok || ratio <= 0 {
		return nil
	}
	return &ratio
}
