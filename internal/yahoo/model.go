package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API, containing nested structures for metadata, timestamps, and price
// indicators. Chart.Error carries the provider's own error message when a
// symbol is unknown.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart payload.
type Chart struct {
	Result []Result `json:"result"`
	Error  *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Result is one chart result (the API returns at most one per symbol).
type Result struct {
	Meta struct {
		Currency         string `json:"currency"`
		Symbol           string `json:"symbol"`
		ExchangeName     string `json:"exchangeName"`
		FullExchangeName string `json:"fullExchangeName"`
		LongName         string `json:"longName"`
		ShortName        string `json:"shortName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
		} `json:"quote"`
	} `json:"indicators"`
}

// searchResponse mirrors the Yahoo symbol-search payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// PriceChart is the application's internal representation of a parsed chart:
// symbol metadata plus an ordered series of daily OHLCV points.
type PriceChart struct {
	Currency   string  `json:"currency"`
	Symbol     string  `json:"symbol"`
	Exchange   string  `json:"exchange"`
	Name       string  `json:"name"`
	Indicators []OHLCV `json:"indicators"`
}

// OHLCV represents a single day's price data for a financial instrument.
type OHLCV struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// StockQuote is the normalized quote shape served to the dashboard: latest
// close plus the change against the previous close.
type StockQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changePercentage"`
	Volume    int64   `json:"volume"`
}

// SearchHit is one symbol-search result filtered to tradable instruments.
type SearchHit struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange"`
}
