package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finboard/finance-dashboard-backend/internal/api/request"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/debounce"
	"github.com/finboard/finance-dashboard-backend/internal/model"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/valuation"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// maxConcurrentQuotes bounds the fan-out when refreshing holding prices so a
// large portfolio does not open dozens of upstream connections at once.
const maxConcurrentQuotes = 5

// tradeRefreshDelay is the quiet period after a trade before stored prices are
// refreshed. A burst of trades triggers one refresh, not one per trade.
const tradeRefreshDelay = 30 * time.Second

// PortfolioService handles portfolio-related business logic. It coordinates
// the portfolio, holding, cash, and transaction repositories so every
// mutation applies the holding change, the cash change, and the ledger entry
// as a single unit, and recomputes valuations from scratch on every read.
type PortfolioService struct {
	db              *sql.DB
	portfolioRepo   *repository.PortfolioRepository
	holdingRepo     *repository.HoldingRepository
	cashRepo        *repository.CashRepository
	transactionRepo *repository.TransactionRepository
	market          yahoo.Client

	// tradeRefresh coalesces post-trade price refreshes: every buy or sell
	// rearms it, and only the last trade of a burst fires RefreshPrices.
	tradeRefresh *debounce.Debouncer

	// logEditTransactions controls whether manual holding edits are recorded
	// in the transaction ledger. Edits are corrections rather than trades, so
	// this is off unless the operator opts in.
	logEditTransactions bool
}

// NewPortfolioService creates a new PortfolioService with the provided
// dependencies. The market client is used to refresh current prices when
// building snapshots.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	cashRepo *repository.CashRepository,
	transactionRepo *repository.TransactionRepository,
	market yahoo.Client,
	logEditTransactions bool,
) *PortfolioService {
	return &PortfolioService{
		db:                  db,
		portfolioRepo:       portfolioRepo,
		holdingRepo:         holdingRepo,
		cashRepo:            cashRepo,
		transactionRepo:     transactionRepo,
		market:              market,
		tradeRefresh:        debounce.New(tradeRefreshDelay),
		logEditTransactions: logEditTransactions,
	}
}

// Close stops the pending post-trade refresh, if any. Called on shutdown so a
// late timer cannot fire against a closed database.
func (s *PortfolioService) Close() {
	s.tradeRefresh.Stop()
}

// scheduleRefresh arms the post-trade price refresh.
func (s *PortfolioService) scheduleRefresh() {
	s.tradeRefresh.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.RefreshPrices(ctx); err != nil {
			log.Printf("post-trade refresh failed: %v", err)
		}
	})
}

// GetSnapshot returns the user's primary portfolio with holdings, cash
// balance, and computed metrics. The primary portfolio is created on first
// access. Current prices are refreshed from the market provider before
// valuation; holdings whose quote lookup fails keep their last stored price
// and are marked stale rather than failing the snapshot.
func (s *PortfolioService) GetSnapshot(ctx context.Context, userID string) (model.PortfolioView, error) {
	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return model.PortfolioView{}, err
	}

	snapshot, err := s.portfolioRepo.Snapshot(ctx, portfolio.ID)
	if err != nil {
		return model.PortfolioView{}, err
	}

	s.refreshQuotes(ctx, snapshot.Holdings)

	views := make([]model.HoldingView, len(snapshot.Holdings))
	for i, h := range snapshot.Holdings {
		views[i] = model.HoldingView{
			Holding:          h,
			HoldingValuation: valuation.ComputeHoldingValuation(h),
		}
	}

	cash, err := s.cashRepo.Get(ctx, s.db, portfolio.ID)
	if err != nil {
		return model.PortfolioView{}, err
	}

	return model.PortfolioView{
		Portfolio: portfolio,
		Holdings:  views,
		Metrics:   valuation.ComputeMetrics(snapshot.Holdings, snapshot.CashBalance),
		Cash:      cash,
	}, nil
}

// latestQuote fetches and parses the current quote for one symbol.
func (s *PortfolioService) latestQuote(ctx context.Context, symbol string) (yahoo.StockQuote, error) {
	resp, err := s.market.QueryLatest(ctx, symbol)
	if err != nil {
		return yahoo.StockQuote{}, err
	}
	chart, err := s.market.ParseChart(resp)
	if err != nil {
		return yahoo.StockQuote{}, err
	}
	return chart.LatestQuote(), nil
}

// refreshQuotes fetches current prices for the given holdings concurrently
// and updates them in place. A failed lookup leaves the stored price intact
// and flags the holding as stale; fetched prices are persisted best-effort so
// the next snapshot starts from fresher data.
func (s *PortfolioService) refreshQuotes(ctx context.Context, holdings []model.Holding) {
	if len(holdings) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for i := range holdings {
		i := i
		g.Go(func() error {
			quote, err := s.latestQuote(gctx, holdings[i].Symbol)
			if err != nil {
				log.Printf("quote refresh failed for %s: %v", holdings[i].Symbol, err)
				holdings[i].Stale = true
				return nil
			}
			holdings[i].CurrentPrice = quote.Price

			if err := s.holdingRepo.UpdateCurrentPrice(gctx, holdings[i].PortfolioID, holdings[i].Symbol, quote.Price); err != nil {
				log.Printf("failed to persist refreshed price for %s: %v", holdings[i].Symbol, err)
			}
			return nil
		})
	}

	// Workers never return errors; failures degrade to stale holdings.
	_ = g.Wait()
}

// BuyStock adds shares of a symbol to the user's primary portfolio. When the
// symbol is already held, the position is merged with a weighted-average
// purchase price. When settling from cash (the default), the total cost is debited from the cash
// balance and the buy is rejected if funds are insufficient. The holding
// change, the cash debit, and the ledger entry commit or roll back together.
func (s *PortfolioService) BuyStock(ctx context.Context, userID string, req request.TradeRequest) (model.Holding, error) {
	if req.Shares <= 0 || req.Price <= 0 {
		return model.Holding{}, apperrors.ErrNegativeAmount
	}

	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return model.Holding{}, err
	}

	cost := req.Shares * req.Price
	var result model.Holding

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if req.Funded() {
			balance, err := s.cashRepo.Get(ctx, tx, portfolio.ID)
			if err != nil {
				return err
			}
			if balance.Balance < cost {
				return apperrors.ErrInsufficientFunds
			}
			if err := s.cashRepo.Set(ctx, tx, portfolio.ID, balance.Balance-cost); err != nil {
				return err
			}
		}

		holding, err := s.holdingRepo.GetBySymbol(ctx, tx, portfolio.ID, req.Symbol)
		switch {
		case err == nil:
			holding = mergePosition(holding, req.Shares, req.Price)
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			holding = model.Holding{
				PortfolioID:  portfolio.ID,
				Symbol:       req.Symbol,
				Name:         req.Name,
				Shares:       req.Shares,
				AvgPrice:     req.Price,
				CurrentPrice: req.Price,
			}
		default:
			return err
		}

		if err := s.holdingRepo.Upsert(ctx, tx, holding); err != nil {
			return err
		}
		result = holding

		return s.transactionRepo.Append(ctx, tx, &model.Transaction{
			PortfolioID: portfolio.ID,
			Type:        model.TransactionBuy,
			Symbol:      req.Symbol,
			Name:        req.Name,
			Shares:      req.Shares,
			Price:       req.Price,
			Amount:      cost,
		})
	})
	if err != nil {
		return model.Holding{}, err
	}

	s.scheduleRefresh()

	return result, nil
}

// mergePosition folds a new purchase into an existing holding using a
// weighted-average cost per share.
func mergePosition(h model.Holding, shares, price float64) model.Holding {
	totalShares := h.Shares + shares
	h.AvgPrice = (h.Shares*h.AvgPrice + shares*price) / totalShares
	h.Shares = totalShares
	if price > 0 {
		h.CurrentPrice = price
	}
	return h
}

// SellStock removes shares of a symbol from the user's primary portfolio and
// credits the proceeds to the cash balance. Selling more shares than held is
// rejected; selling the entire position deletes the holding row so no
// zero-share entry lingers.
func (s *PortfolioService) SellStock(ctx context.Context, userID string, req request.TradeRequest) error {
	if req.Shares <= 0 || req.Price <= 0 {
		return apperrors.ErrNegativeAmount
	}

	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return err
	}

	proceeds := req.Shares * req.Price

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		holding, err := s.holdingRepo.GetBySymbol(ctx, tx, portfolio.ID, req.Symbol)
		if err != nil {
			return err
		}

		if req.Shares > holding.Shares {
			return apperrors.ErrInsufficientShares
		}

		if req.Shares == holding.Shares {
			if err := s.holdingRepo.Delete(ctx, tx, portfolio.ID, req.Symbol); err != nil {
				return err
			}
		} else {
			holding.Shares -= req.Shares
			if req.Price > 0 {
				holding.CurrentPrice = req.Price
			}
			if err := s.holdingRepo.Upsert(ctx, tx, holding); err != nil {
				return err
			}
		}

		balance, err := s.cashRepo.Get(ctx, tx, portfolio.ID)
		if err != nil {
			return err
		}
		if err := s.cashRepo.Set(ctx, tx, portfolio.ID, balance.Balance+proceeds); err != nil {
			return err
		}

		return s.transactionRepo.Append(ctx, tx, &model.Transaction{
			PortfolioID: portfolio.ID,
			Type:        model.TransactionSell,
			Symbol:      req.Symbol,
			Name:        holding.Name,
			Shares:      req.Shares,
			Price:       req.Price,
			Amount:      proceeds,
		})
	})
	if err != nil {
		return err
	}

	s.scheduleRefresh()

	return nil
}

// EditHolding overwrites the share count and average price of an existing
// holding. This is a manual correction, not a trade: the cash balance is
// untouched, and a ledger entry is only written when the service was
// configured to log edits.
func (s *PortfolioService) EditHolding(ctx context.Context, userID string, req request.EditHoldingRequest) (model.Holding, error) {
	if req.Shares <= 0 || req.AvgPrice <= 0 {
		return model.Holding{}, apperrors.ErrNegativeAmount
	}

	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return model.Holding{}, err
	}

	var result model.Holding

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		holding, err := s.holdingRepo.GetBySymbol(ctx, tx, portfolio.ID, req.Symbol)
		if err != nil {
			return err
		}

		holding.Shares = req.Shares
		holding.AvgPrice = req.AvgPrice
		if err := s.holdingRepo.Upsert(ctx, tx, holding); err != nil {
			return err
		}
		result = holding

		if !s.logEditTransactions {
			return nil
		}

		return s.transactionRepo.Append(ctx, tx, &model.Transaction{
			PortfolioID: portfolio.ID,
			Type:        model.TransactionEdit,
			Symbol:      holding.Symbol,
			Name:        holding.Name,
			Shares:      req.Shares,
			Price:       req.AvgPrice,
			Amount:      req.Shares * req.AvgPrice,
			Description: "manual position edit",
		})
	})
	if err != nil {
		return model.Holding{}, err
	}

	return result, nil
}

// RemoveHolding deletes a holding outright without touching the cash balance.
// Like edits, removals are corrections and are not written to the ledger.
func (s *PortfolioService) RemoveHolding(ctx context.Context, userID, symbol string) error {
	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return err
	}

	return s.holdingRepo.Delete(ctx, s.db, portfolio.ID, symbol)
}

// Deposit adds funds to the user's cash balance and records the deposit in
// the ledger.
func (s *PortfolioService) Deposit(ctx context.Context, userID string, req request.CashRequest) (model.CashBalance, error) {
	return s.adjustCash(ctx, userID, req, model.TransactionDeposit)
}

// Withdraw removes funds from the user's cash balance. Withdrawing more than
// the current balance is rejected.
func (s *PortfolioService) Withdraw(ctx context.Context, userID string, req request.CashRequest) (model.CashBalance, error) {
	return s.adjustCash(ctx, userID, req, model.TransactionWithdraw)
}

func (s *PortfolioService) adjustCash(ctx context.Context, userID string, req request.CashRequest, txType string) (model.CashBalance, error) {
	if req.Amount <= 0 {
		return model.CashBalance{}, apperrors.ErrNegativeAmount
	}

	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return model.CashBalance{}, err
	}

	var result model.CashBalance

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.cashRepo.Get(ctx, tx, portfolio.ID)
		if err != nil {
			return err
		}

		newBalance := balance.Balance
		if txType == model.TransactionWithdraw {
			if req.Amount > balance.Balance {
				return apperrors.ErrInsufficientFunds
			}
			newBalance -= req.Amount
		} else {
			newBalance += req.Amount
		}

		if err := s.cashRepo.Set(ctx, tx, portfolio.ID, newBalance); err != nil {
			return err
		}

		balance.Balance = newBalance
		result = balance

		return s.transactionRepo.Append(ctx, tx, &model.Transaction{
			PortfolioID: portfolio.ID,
			Type:        txType,
			Amount:      req.Amount,
			Description: req.Description,
		})
	})
	if err != nil {
		return model.CashBalance{}, err
	}

	return result, nil
}

// GetTransactions returns the portfolio's ledger, newest first.
func (s *PortfolioService) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	portfolio, err := s.portfolioRepo.GetOrCreatePrimary(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.ListByPortfolio(ctx, portfolio.ID)
}

// RefreshPrices updates the stored current price for every distinct held
// symbol across all portfolios. It is invoked on a schedule so snapshots stay
// reasonably fresh even without traffic. Individual symbol failures are
// logged and skipped; the count of updated symbols is returned.
func (s *PortfolioService) RefreshPrices(ctx context.Context) (int, error) {
	symbols, err := s.holdingRepo.DistinctSymbols(ctx)
	if err != nil {
		return 0, err
	}
	if len(symbols) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	var updated atomic.Int64
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			quote, err := s.latestQuote(gctx, symbol)
			if err != nil {
				log.Printf("scheduled refresh: quote failed for %s: %v", symbol, err)
				return nil
			}
			if err := s.holdingRepo.UpdateCurrentPriceBySymbol(gctx, symbol, quote.Price); err != nil {
				log.Printf("scheduled refresh: price update failed for %s: %v", symbol, err)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}

	_ = g.Wait()
	return int(updated.Load()), nil
}
