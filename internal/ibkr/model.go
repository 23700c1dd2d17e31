package ibkr

import "encoding/xml"

// FlexStatementResponse is the envelope IBKR returns instead of a report when
// a Flex request fails or is not ready yet.
type FlexStatementResponse struct {
	XMLName      xml.Name `xml:"FlexStatementResponse"`
	Status       string   `xml:"Status"`
	ErrorCode    *int     `xml:"ErrorCode"`
	ErrorMessage *string  `xml:"ErrorMessage"`
}

// FlexQueryResponse is an IBKR Flex Query activity report.
// Numeric attributes are kept as text and parsed by the row normalizer.
type FlexQueryResponse struct {
	XMLName        xml.Name `xml:"FlexQueryResponse"`
	QueryName      string   `xml:"queryName,attr"`
	Type           string   `xml:"type,attr"`
	FlexStatements struct {
		Count         string          `xml:"count,attr"`
		FlexStatement []FlexStatement `xml:"FlexStatement"`
	} `xml:"FlexStatements"`
}

// FlexStatement holds the activity of one account.
type FlexStatement struct {
	AccountID     string `xml:"accountId,attr"`
	FromDate      string `xml:"fromDate,attr"`
	ToDate        string `xml:"toDate,attr"`
	WhenGenerated string `xml:"whenGenerated,attr"`
	Trades        struct {
		Trade []Trade `xml:"Trade"`
	} `xml:"Trades"`
	CashTransactions struct {
		CashTransaction []CashTransaction `xml:"CashTransaction"`
	} `xml:"CashTransactions"`
}

// Trade is one executed order.
type Trade struct {
	Currency      string `xml:"currency,attr"`
	Symbol        string `xml:"symbol,attr"`
	Description   string `xml:"description,attr"`
	Isin          string `xml:"isin,attr"`
	Quantity      string `xml:"quantity,attr"`
	TradePrice    string `xml:"tradePrice,attr"`
	IbCommission  string `xml:"ibCommission,attr"`
	Taxes         string `xml:"taxes,attr"`
	NetCash       string `xml:"netCash,attr"`
	TransactionID string `xml:"transactionID,attr"`
	TradeDate     string `xml:"tradeDate,attr"`
	DateTime      string `xml:"dateTime,attr"`
	BuySell       string `xml:"buySell,attr"`
}

// CashTransaction is a dividend, tax, interest, fee, deposit or withdrawal.
type CashTransaction struct {
	Currency      string `xml:"currency,attr"`
	Symbol        string `xml:"symbol,attr"`
	Description   string `xml:"description,attr"`
	DateTime      string `xml:"dateTime,attr"`
	Amount        string `xml:"amount,attr"`
	Type          string `xml:"type,attr"`
	TransactionID string `xml:"transactionID,attr"`
}
