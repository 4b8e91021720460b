/*
scheduler.go - Background validation of archived documents

PURPOSE:
  Documents created while the validator was down, or before it was
  configured, have no validation history. The sweeper walks the archive on
  a fixed interval and validates every document that has never been
  validated.

BEHAVIOR:
  - Runs once immediately on Start, then every Interval
  - Skips documents that already have at least one validation run
  - Stops the current pass when validation is disabled
  - A failure on one document is logged and the pass continues

USAGE:
  sweeper := api.NewValidationSweeper(handler, 10*time.Minute)
  sweeper.Start()
  defer sweeper.Stop()

SEE ALSO:
  - handlers.go: validate, shared with POST /api/documents/{id}/validate
  - cmd/server/main.go: Starts the sweeper when validation.sweep_interval is set
*/
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/xbrl-engine/validation"
)

// ValidationSweeper validates archived documents in the background.
type ValidationSweeper struct {
	Handler  *Handler
	Interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

// SweepResult counts the outcome of one pass.
type SweepResult struct {
	Validated int
	Skipped   int
	Failed    int
}

// NewValidationSweeper creates a new sweeper.
func NewValidationSweeper(h *Handler, interval time.Duration) *ValidationSweeper {
	return &ValidationSweeper{
		Handler:  h,
		Interval: interval,
	}
}

// Start begins the sweeper. It is a no-op without a validation log or with
// a non-positive interval.
func (s *ValidationSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.Handler.Logger
	if s.Interval <= 0 || s.Handler.Validations == nil {
		logger.Info("validation sweeper disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	logger.Info("validation sweeper started", zap.Duration("interval", s.Interval))
}

// Stop stops the sweeper and waits for a running pass to finish.
func (s *ValidationSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Handler.Logger.Info("validation sweeper stopped")
	}
}

func (s *ValidationSweeper) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	// Run immediately on start
	s.RunNow(ctx)

	for {
		select {
		case <-ticker.C:
			s.RunNow(ctx)
		case <-stop:
			return
		}
	}
}

// RunNow performs one pass over the archive.
func (s *ValidationSweeper) RunNow(ctx context.Context) SweepResult {
	var result SweepResult
	h := s.Handler
	if h.Validations == nil {
		return result
	}

	docs, err := h.Documents.List(ctx)
	if err != nil {
		h.Logger.Error("sweeper failed to list documents", zap.Error(err))
		return result
	}

	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}

		runs, err := h.Validations.GetValidations(ctx, doc.ID)
		if err != nil {
			h.Logger.Error("sweeper failed to read validations", zap.String("id", doc.ID), zap.Error(err))
			result.Failed++
			continue
		}
		if len(runs) > 0 {
			result.Skipped++
			continue
		}

		_, err = h.validate(ctx, doc.ID)
		if errors.Is(err, validation.ErrDisabled) {
			h.Logger.Debug("validation disabled, sweep stopped")
			break
		}
		if err != nil {
			result.Failed++
			continue
		}
		result.Validated++
	}

	if result.Validated > 0 || result.Failed > 0 {
		h.Logger.Info("validation sweep completed",
			zap.Int("validated", result.Validated),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed))
	}
	return result
}
