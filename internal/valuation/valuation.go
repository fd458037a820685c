// Package valuation computes derived portfolio metrics. All functions are pure:
// they never fetch quotes or touch storage, and recompute every figure from the
// inputs on each call so repeated calls on identical input yield identical
// output.
package valuation

import "github.com/finboard/finance-dashboard-backend/internal/model"

// ComputeHoldingValuation derives value, cost basis and return figures for a
// single holding from its shares, average purchase price and last fetched
// price. A holding whose cost basis is zero has a return percentage of zero
// rather than a division by zero.
func ComputeHoldingValuation(h model.Holding) model.HoldingValuation {
	value := h.Shares * h.CurrentPrice
	costBasis := h.Shares * h.AvgPrice
	returnAmount := value - costBasis

	returnPct := 0.0
	if costBasis > 0 {
		returnPct = returnAmount / costBasis * 100
	}

	return model.HoldingValuation{
		Value:        value,
		CostBasis:    costBasis,
		ReturnAmount: returnAmount,
		ReturnPct:    returnPct,
	}
}

// ComputeMetrics derives the aggregate portfolio metrics from the holdings and
// the cash balance. Holdings must already carry their refreshed current price;
// this function never fetches quotes.
func ComputeMetrics(holdings []model.Holding, cashBalance float64) model.PortfolioMetrics {
	metrics := model.PortfolioMetrics{
		CashBalance:  cashBalance,
		HoldingCount: len(holdings),
	}

	for _, h := range holdings {
		v := ComputeHoldingValuation(h)
		metrics.TotalValue += v.Value
		metrics.TotalCost += v.CostBasis
		metrics.TotalReturn += v.ReturnAmount
	}

	metrics.TotalValue += cashBalance

	if metrics.TotalCost > 0 {
		metrics.ReturnPct = metrics.TotalReturn / metrics.TotalCost * 100
	}

	return metrics
}
