package model

import "time"

// Portfolio represents a portfolio row from the database. Each user has exactly
// one primary portfolio, created implicitly on first access.
type Portfolio struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Holding represents a position in one instrument. A holding only exists while
// shares > 0; selling the full position deletes the row instead of keeping a
// zero-share entry.
type Holding struct {
	ID          string  `json:"id"`
	PortfolioID string  `json:"portfolioId"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Shares      float64 `json:"shares"`
	AvgPrice    float64 `json:"avgPrice"`
	// CurrentPrice is the last fetched quote and may be stale; callers must
	// check Stale before treating a zero price as authoritative.
	CurrentPrice float64 `json:"currentPrice"`
	// Stale is true when the most recent quote refresh for this symbol failed
	// and CurrentPrice is carried over from an earlier fetch. Not persisted.
	Stale bool `json:"stale,omitempty"`
}

// CashBalance represents the single USD cash row of a portfolio.
type CashBalance struct {
	ID          string  `json:"id"`
	PortfolioID string  `json:"portfolioId"`
	Balance     float64 `json:"balance"`
	Currency    string  `json:"currency"`
}

// PortfolioSnapshot is the full read of a portfolio's holdings and cash at one
// point in time.
type PortfolioSnapshot struct {
	PortfolioID string    `json:"portfolioId"`
	CashBalance float64   `json:"cashBalance"`
	Holdings    []Holding `json:"holdings"`
}

// HoldingValuation holds the derived metrics of a single holding. Never
// persisted; recomputed from shares, average price and current price.
type HoldingValuation struct {
	Value        float64 `json:"value"`
	CostBasis    float64 `json:"costBasis"`
	ReturnAmount float64 `json:"returnAmount"`
	ReturnPct    float64 `json:"returnPct"`
}

// HoldingView is a holding enriched with its valuation for API responses.
type HoldingView struct {
	Holding
	HoldingValuation
}

// PortfolioView is the snapshot response shape: the portfolio row, its
// holdings with valuations, and the aggregate metrics.
type PortfolioView struct {
	Portfolio Portfolio        `json:"portfolio"`
	Holdings  []HoldingView    `json:"holdings"`
	Metrics   PortfolioMetrics `json:"metrics"`
	Cash      CashBalance      `json:"cash"`
}

// PortfolioMetrics holds the derived aggregate metrics of a portfolio. Never
// persisted and never updated incrementally; every state change recomputes the
// full set from scratch to avoid drift.
type PortfolioMetrics struct {
	TotalValue   float64 `json:"totalValue"`
	TotalCost    float64 `json:"totalCost"`
	TotalReturn  float64 `json:"totalReturn"`
	ReturnPct    float64 `json:"returnPct"`
	CashBalance  float64 `json:"cashBalance"`
	HoldingCount int     `json:"holdingCount"`
}
