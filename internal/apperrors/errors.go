package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that the portfolio does not hold the given symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWatchlistNotFound indicates that a watchlist with the given ID does not exist.
	ErrWatchlistNotFound = errors.New("watchlist not found")

	// ErrWatchlistItemNotFound indicates that a symbol is not on the given watchlist.
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSettingNotFound indicates that an application setting key has no value.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell cannot be completed because the
	// portfolio does not hold enough shares of the symbol.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInsufficientFunds indicates that a withdrawal or cash-funded buy exceeds
	// the portfolio's cash balance.
	ErrInsufficientFunds = errors.New("insufficient cash balance")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid non-positive value.
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidSymbol indicates a missing or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("symbol is required")
)

// Provider errors represent failures at the market-data boundary. Transport and
// provider faults are converted into these sentinels at the adapter and never
// propagate to callers as raw errors.
var (
	// ErrProviderUnavailable indicates the market-data provider rejected or
	// failed the request.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrProviderTimeout indicates the provider did not respond within the
	// configured per-call deadline.
	ErrProviderTimeout = errors.New("market data provider timed out")

	// ErrNoData indicates the provider answered but returned an empty series.
	ErrNoData = errors.New("no data returned by provider")

	// ErrMalformedResponse indicates the provider payload failed the typed
	// parse/validate step.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	ErrFailedToRetrieveSnapshot     = errors.New("failed to retrieve portfolio snapshot")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveWatchlist    = errors.New("failed to retrieve watchlist")
	ErrFailedToRetrieveQuote        = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveHistory      = errors.New("failed to retrieve historical data")
	ErrFailedToSearchSymbols        = errors.New("failed to search symbols")
	ErrFailedToApplyMutation        = errors.New("failed to apply portfolio mutation")
	ErrFailedToUpdateSettings       = errors.New("failed to update settings")
)
