package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/repository"
	"golang.org/x/sync/semaphore"
)

// Recorder persists calculations in the background. A save never delays or
// fails the request that produced it.
type Recorder struct {
	repo    repository.CalculationRepository
	log     *logger.Logger
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	timeout time.Duration
	now     func() time.Time
}

// NewRecorder creates a Recorder allowing at most maxInflight concurrent
// saves, each bounded by timeout.
func NewRecorder(repo repository.CalculationRepository, log *logger.Logger, timeout time.Duration, maxInflight int) *Recorder {
	if maxInflight < 1 {
		maxInflight = 1
	}
	return &Recorder{
		repo:    repo,
		log:     log,
		sem:     semaphore.NewWeighted(int64(maxInflight)),
		timeout: timeout,
		now:     time.Now,
	}
}

// Record queues a save and returns immediately. It reports false when the
// in-flight limit is reached and the record was dropped.
func (r *Recorder) Record(id uuid.UUID, userKey string, inputs models.SolarInputParams, results models.CalculationResult) bool {
	if !r.sem.TryAcquire(1) {
		r.log.Warn("Calculation save dropped, too many saves in flight", map[string]interface{}{
			"calculation_id": id.String(),
			"user_key":       userKey,
		})
		return false
	}

	calc := &models.SavedCalculation{
		ID:        id,
		UserKey:   userKey,
		Inputs:    inputs,
		Results:   results,
		CreatedAt: r.now().UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.repo.Save(ctx, calc); err != nil {
			r.log.Error("Failed to save calculation", err, map[string]interface{}{
				"calculation_id": id.String(),
				"user_key":       userKey,
			})
			return
		}
		r.log.Debug("Calculation saved", map[string]interface{}{
			"calculation_id": id.String(),
			"user_key":       userKey,
		})
	}()
	return true
}

// Wait blocks until every queued save finishes or ctx ends.
func (r *Recorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
