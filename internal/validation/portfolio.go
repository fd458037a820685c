package validation

import (
	"strings"

	"github.com/finboard/finance-dashboard-backend/internal/api/request"
)

func ValidateTrade(req request.TradeRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = "symbol is not a valid ticker"
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be greater than zero"
	}
	if req.Price <= 0 {
		errors["price"] = "price must be greater than zero"
	}
	if len(req.Name) > 200 {
		errors["name"] = "name must be 200 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateEditHolding(req request.EditHoldingRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = "symbol is not a valid ticker"
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be greater than zero"
	}
	if req.AvgPrice <= 0 {
		errors["avgPrice"] = "avgPrice must be greater than zero"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateCash(req request.CashRequest) error {
	errors := make(map[string]string)

	if req.Amount <= 0 {
		errors["amount"] = "amount must be greater than zero"
	}
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
