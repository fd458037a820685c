// Package refresh runs the scheduled background job that keeps stored holding
// prices current between dashboard visits.
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/finboard/finance-dashboard-backend/internal/service"
)

// jobTimeout caps one full refresh sweep. A wedged upstream must not pile up
// overlapping runs.
const jobTimeout = 2 * time.Minute

// Scheduler owns the cron runner for the price refresh job.
type Scheduler struct {
	cron      *cron.Cron
	portfolio *service.PortfolioService
	schedule  string
}

// NewScheduler creates a Scheduler that refreshes prices on the given cron
// schedule (standard five-field spec).
func NewScheduler(portfolio *service.PortfolioService, schedule string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		portfolio: portfolio,
		schedule:  schedule,
	}
}

// Start registers the refresh job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runRefresh)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("price refresh scheduled: %s", s.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	updated, err := s.portfolio.RefreshPrices(ctx)
	if err != nil {
		log.Printf("price refresh failed: %v", err)
		return
	}
	log.Printf("price refresh complete: %d symbols updated", updated)
}
