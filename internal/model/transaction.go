package model

import "time"

// Transaction types recorded in the ledger.
const (
	TransactionBuy      = "buy"
	TransactionSell     = "sell"
	TransactionDeposit  = "deposit"
	TransactionWithdraw = "withdraw"
	TransactionEdit     = "edit"
)

// Transaction represents one immutable ledger entry. A record is appended once
// per mutating portfolio action and is never updated or deleted afterwards.
// Symbol, Name, Shares and Price are only set for instrument transactions;
// cash deposits and withdrawals carry just the amount.
type Transaction struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Type        string    `json:"type"`
	Symbol      string    `json:"symbol,omitempty"`
	Name        string    `json:"name,omitempty"`
	Shares      float64   `json:"shares,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
