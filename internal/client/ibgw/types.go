package ibgw

import "github.com/shopspring/decimal"

type Account struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Currency    string `json:"currency"`
}

type PositionRow struct {
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
}

// Bar is one OHLCV bar as the gateway reports it. Date is YYYY-MM-DD for
// daily bars.
type Bar struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// HistoryRequest mirrors the gateway's historical-data query: an IB-style
// duration ("10 Y"), bar size ("1 day") and data type ("TRADES").
type HistoryRequest struct {
	Symbol     string
	Duration   string
	BarSize    string
	WhatToShow string
}

type sessionState struct {
	Connected bool `json:"connected"`
}
