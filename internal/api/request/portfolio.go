package request

// TradeRequest represents the request body for buying or selling shares
type TradeRequest struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	// FromCash: when buying, debit the total cost from the cash balance and
	// reject the buy if funds are insufficient. Sells always credit cash.
	FromCash *bool `json:"fromCash,omitempty"`
}

// Funded reports whether the trade settles against the cash balance.
// Defaults to true when the field is omitted.
func (r TradeRequest) Funded() bool {
	if r.FromCash == nil {
		return true
	}
	return *r.FromCash
}

// EditHoldingRequest represents the request body for a manual position
// correction: the share count and average price to overwrite a holding with.
type EditHoldingRequest struct {
	Symbol   string  `json:"symbol"`
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avgPrice"`
}

// CashRequest represents the request body for a deposit or withdrawal
type CashRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}
