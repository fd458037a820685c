package validation

import (
	"strings"

	"github.com/finboard/finance-dashboard-backend/internal/api/request"
)

func ValidateAddWatchlistItem(req request.AddWatchlistItemRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = "symbol is not a valid ticker"
	}
	if len(req.Name) > 200 {
		errors["name"] = "name must be 200 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
