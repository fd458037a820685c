package finnhub

// rawQuote mirrors the Finnhub quote payload. Fields are pointers so the parse
// step can tell "absent" apart from a legitimate zero; the legacy dashboard
// defaulted everything with zero and could not distinguish a free instrument
// from a failed fetch.
type rawQuote struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	ChangePct     *float64 `json:"dp"`
	High          *float64 `json:"h"`
	Low           *float64 `json:"l"`
	Open          *float64 `json:"o"`
	PreviousClose *float64 `json:"pc"`
	Timestamp     *int64   `json:"t"`
	Volume        *float64 `json:"v"`
}

// Quote is a validated point-in-time snapshot for one symbol. JSON tags keep
// the provider's single-letter wire shape for the marketdata proxy.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePct     float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
	Volume        float64 `json:"v"`
}

// Candles is an OHLCV series in the provider's columnar wire shape. Status is
// "ok" or "no_data".
type Candles struct {
	Close     []float64 `json:"c"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Open      []float64 `json:"o"`
	Status    string    `json:"s"`
	Timestamp []int64   `json:"t"`
	Volume    []float64 `json:"v"`
}

// Profile describes a company.
type Profile struct {
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	IPO       string  `json:"ipo"`
	MarketCap float64 `json:"marketCapitalization"`
	Name      string  `json:"name"`
	SharesOut float64 `json:"shareOutstanding"`
	Ticker    string  `json:"ticker"`
	WebURL    string  `json:"weburl"`
	Logo      string  `json:"logo"`
	Industry  string  `json:"finnhubIndustry"`
}

// SearchResult is one symbol-search hit.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// searchResponse wraps the provider's search payload.
type searchResponse struct {
	Count  int            `json:"count"`
	Result []SearchResult `json:"result"`
}

// NewsItem is one market-news article.
type NewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
