// Package ibkr reads Interactive Brokers Flex Query reports and turns their
// trades and cash transactions into importer rows.
package ibkr

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ndewijer/portfolio-insights/internal/importer"
)

// ParseFlexReport decodes an uploaded Flex Query XML report.
// An error envelope (FlexStatementResponse) is reported as an error carrying
// the IBKR error code and message.
func ParseFlexReport(r io.Reader) (FlexQueryResponse, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FlexQueryResponse{}, fmt.Errorf("failed to read flex report: %w", err)
	}

	var response FlexQueryResponse
	if err := xml.Unmarshal(data, &response); err != nil {
		var errResponse FlexStatementResponse
		if xml.Unmarshal(data, &errResponse) == nil && errResponse.ErrorCode != nil {
			msg := ""
			if errResponse.ErrorMessage != nil {
				msg = *errResponse.ErrorMessage
			}
			return FlexQueryResponse{}, fmt.Errorf("ibkr error %d: %s", *errResponse.ErrorCode, msg)
		}
		return FlexQueryResponse{}, fmt.Errorf("failed to decode flex report: %w", err)
	}
	if !bytes.Contains(data, []byte("<FlexStatements")) {
		return FlexQueryResponse{}, fmt.Errorf("flex report has no statements")
	}
	return response, nil
}

// Rows converts every trade and cash transaction of the report into raw
// importer rows, statement by statement, trades first.
func (f FlexQueryResponse) Rows() []importer.RawRow {
	var rows []importer.RawRow
	for _, st := range f.FlexStatements.FlexStatement {
		for _, t := range st.Trades.Trade {
			rows = append(rows, t.Row())
		}
		for _, c := range st.CashTransactions.CashTransaction {
			rows = append(rows, c.Row())
		}
	}
	return rows
}

// Row maps a trade onto the CSV export columns. Amount is the gross trade
// value; commission and taxes go to the fee and tax columns so they are not
// counted twice.
func (t Trade) Row() importer.RawRow {
	action := "Buy"
	if strings.EqualFold(strings.TrimSpace(t.BuySell), "SELL") {
		action = "Sell"
	}

	row := importer.RawRow{
		"Time":                     flexTime(firstNonEmpty(t.DateTime, t.TradeDate)),
		"Action":                   action,
		"Ticker":                   t.Symbol,
		"Name":                     t.Description,
		"Currency (Amount)":        t.Currency,
		"Currency (Price / share)": t.Currency,
		"Price / share":            t.TradePrice,
		"No. of shares":            absText(t.Quantity),
		"Fee amount":               t.IbCommission,
		"Tax amount":               t.Taxes,
	}

	qty, okQty := importer.ParseOptionalNumber(t.Quantity)
	price, okPrice := importer.ParseOptionalNumber(t.TradePrice)
	if okQty && okPrice {
		row["Amount"] = strconv.FormatFloat(math.Abs(qty*price), 'f', -1, 64)
	}
	return row
}

// Row maps a cash transaction onto the CSV export columns.
func (c CashTransaction) Row() importer.RawRow {
	return importer.RawRow{
		"Time":              flexTime(c.DateTime),
		"Action":            cashAction(c),
		"Amount":            c.Amount,
		"Currency (Amount)": c.Currency,
		"Ticker":            c.Symbol,
		"Name":              c.Description,
	}
}

func cashAction(c CashTransaction) string {
	kind := strings.ToLower(c.Type)
	switch {
	case strings.Contains(kind, "deposits/withdrawals"):
		if amount, ok := importer.ParseOptionalNumber(c.Amount); ok && amount < 0 {
			return "Withdrawal"
		}
		return "Deposit"
	case strings.Contains(kind, "withholding"):
		return "Withholding tax"
	case strings.Contains(kind, "dividend"):
		return "Dividend"
	case strings.Contains(kind, "interest") && strings.Contains(kind, "paid"):
		return "Fee"
	case strings.Contains(kind, "interest"):
		return "Interest"
	case strings.Contains(kind, "fee"), strings.Contains(kind, "commission"):
		return "Fee"
	default:
		return c.Type
	}
}

// flexTime rewrites the compact Flex formats "20240115", "20240115;093000"
// and "2024-01-15, 09:30:00" into layouts the normalizer accepts.
func flexTime(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, ", ", " ", 1)

	date, clock, hasClock := strings.Cut(s, ";")
	if len(date) == 8 && isDigits(date) {
		date = date[:4] + "-" + date[4:6] + "-" + date[6:]
	}
	if !hasClock {
		return date
	}
	if len(clock) == 6 && isDigits(clock) {
		clock = clock[:2] + ":" + clock[2:4] + ":" + clock[4:]
	}
	return date + " " + clock
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func absText(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
