// Package ingestion drives the ingestion state machine:
//
//	in-progress --complete--> completed
//	in-progress --fail------> failed
//	failed      --retry-----> in-progress
//
// Completions are deferred through a Scheduler so they can be cancelled when
// the document goes away or the engine shuts down.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/store"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// SimulatedFailure is the error recorded on naturally failed ingestions.
const SimulatedFailure = "Simulated processing failure"

// DocumentDeleted is the error recorded on runs whose document was deleted
// while they were in progress.
const DocumentDeleted = "document deleted"

var errNotRunning = errors.New("ingestion not in progress")

type Options struct {
	// CompletionDelay is how long a run stays in progress before it finishes.
	CompletionDelay time.Duration
	// NaturalCompletion schedules a finish for freshly started runs too, not
	// only for retried ones.
	NaturalCompletion bool
	// FailureRate is the probability that a natural completion fails.
	// Retried runs always complete.
	FailureRate float64
	MinPages    int
	MaxPages    int
	Rand        *rand.Rand
}

func OptionsFromConfig(cfg config.IngestionConfig) Options {
	return Options{
		CompletionDelay:   cfg.CompletionDelay,
		NaturalCompletion: cfg.NaturalCompletion,
		FailureRate:       cfg.FailureRate,
		MinPages:          cfg.MinPages,
		MaxPages:          cfg.MaxPages,
	}
}

type Engine struct {
	store *store.Store
	sim   *latency.Simulator
	clock clockwork.Clock
	sched *Scheduler
	opts  Options

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewEngine(st *store.Store, sim *latency.Simulator, clock clockwork.Clock, opts Options) *Engine {
	if opts.MinPages <= 0 && opts.MaxPages <= 0 {
		opts.MinPages, opts.MaxPages = 5, 54
	}
	if opts.MaxPages < opts.MinPages {
		opts.MaxPages = opts.MinPages
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{store: st, sim: sim, clock: clock, sched: NewScheduler(clock), opts: opts, rnd: rnd}
}

func (e *Engine) List(ctx context.Context) ([]models.Ingestion, error) {
	return e.Search(ctx, "")
}

// Search lists ingestions whose document title contains term (case-insensitive).
// An empty term lists everything.
func (e *Engine) Search(ctx context.Context, term string) ([]models.Ingestion, error) {
	err := e.sim.Wait(ctx, latency.OpList)
	metrics.ServiceCalls.WithLabelValues("ingestion", "list", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return e.store.Ingestions.Filter(func(i models.Ingestion) bool {
		return term == "" || strings.Contains(strings.ToLower(i.DocumentTitle), term)
	}), nil
}

func (e *Engine) Get(ctx context.Context, id string) (models.Ingestion, error) {
	ing, err := e.get(ctx, id)
	metrics.ServiceCalls.WithLabelValues("ingestion", "get", metrics.Outcome(err)).Inc()
	return ing, err
}

func (e *Engine) get(ctx context.Context, id string) (models.Ingestion, error) {
	if err := e.sim.Wait(ctx, latency.OpGet); err != nil {
		return models.Ingestion{}, err
	}
	ing, err := e.store.Ingestions.Get(id)
	if err != nil {
		return models.Ingestion{}, fmt.Errorf("%w: ingestion %s", apperr.ErrNotFound, id)
	}
	return ing, nil
}

// Begin records a new in-progress run for doc. The document is expected to be
// in the store already.
func (e *Engine) Begin(doc models.Document) (models.Ingestion, error) {
	ing := models.Ingestion{
		ID:             uuid.NewString(),
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		StartTime:      e.clock.Now(),
		Status:         models.IngestionInProgress,
		ProcessedPages: 0,
		TotalPages:     e.totalPages(),
	}
	if err := e.store.Ingestions.Insert(ing); err != nil {
		return models.Ingestion{}, fmt.Errorf("insert ingestion: %w", err)
	}
	logger.Infof("ingestion %s started for document %s (%d pages)", ing.ID, doc.ID, ing.TotalPages)
	if e.opts.NaturalCompletion {
		e.scheduleFinish(ing.ID, false)
	}
	return ing, nil
}

// Resume schedules a finish for every run already in progress, e.g. seeded
// data, when natural completion is enabled. It returns how many were scheduled.
func (e *Engine) Resume() int {
	if !e.opts.NaturalCompletion {
		return 0
	}
	n := 0
	for _, ing := range e.store.Ingestions.Filter(func(i models.Ingestion) bool { return i.Status == models.IngestionInProgress }) {
		if !e.sched.Pending(ing.ID) {
			e.scheduleFinish(ing.ID, false)
			n++
		}
	}
	return n
}

// Retry restarts a failed run. It fails with apperr.ErrNotFound for an unknown
// id and apperr.ErrInvalidState when the run is not failed; in both cases
// nothing changes. The restarted run always completes after the completion delay.
func (e *Engine) Retry(ctx context.Context, id string) (models.Ingestion, error) {
	ing, err := e.retry(ctx, id)
	metrics.ServiceCalls.WithLabelValues("ingestion", "retry", metrics.Outcome(err)).Inc()
	return ing, err
}

func (e *Engine) retry(ctx context.Context, id string) (models.Ingestion, error) {
	if err := e.sim.Wait(ctx, latency.OpRetry); err != nil {
		return models.Ingestion{}, err
	}
	now := e.clock.Now()
	ing, err := e.store.Ingestions.Update(id, func(i *models.Ingestion) error {
		if i.Status != models.IngestionFailed {
			return fmt.Errorf("%w: ingestion %s is %s, only failed ingestions can be retried", apperr.ErrInvalidState, id, i.Status)
		}
		i.Status = models.IngestionInProgress
		i.StartTime = now
		i.EndTime = nil
		i.ProcessedPages = 0
		i.Error = ""
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return models.Ingestion{}, fmt.Errorf("%w: ingestion %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return models.Ingestion{}, err
	}
	metrics.IngestionTransitions.WithLabelValues(string(models.IngestionFailed), string(models.IngestionInProgress)).Inc()
	e.setDocumentStatus(ing, models.DocumentProcessing)
	logger.Infof("ingestion %s retried", id)
	e.scheduleFinish(id, true)
	return ing, nil
}

// CancelForDocument drops pending finishes for every run of documentID and
// fails the runs still in progress with DocumentDeleted, so none is left
// in progress without a finish. It returns how many runs were failed.
func (e *Engine) CancelForDocument(documentID string) int {
	n := 0
	now := e.clock.Now()
	for _, ing := range e.store.IngestionsForDocument(documentID) {
		e.sched.Cancel(ing.ID)
		_, err := e.store.Ingestions.Update(ing.ID, func(i *models.Ingestion) error {
			if i.Status != models.IngestionInProgress {
				return errNotRunning
			}
			i.Status = models.IngestionFailed
			i.EndTime = &now
			i.Error = DocumentDeleted
			return nil
		})
		if err != nil {
			continue
		}
		metrics.IngestionTransitions.WithLabelValues(string(models.IngestionInProgress), string(models.IngestionFailed)).Inc()
		logger.Infof("ingestion %s failed: document %s removed", ing.ID, documentID)
		n++
	}
	return n
}

// Pending reports whether a finish is scheduled for the ingestion.
func (e *Engine) Pending(id string) bool {
	return e.sched.Pending(id)
}

// Close cancels all pending finishes; later retries still update state but
// never complete.
func (e *Engine) Close() {
	if n := e.sched.Close(); n > 0 {
		logger.Infof("ingestion engine stopped, %d pending completions cancelled", n)
	}
}

func (e *Engine) scheduleFinish(id string, forceSuccess bool) {
	if !e.sched.Schedule(id, e.opts.CompletionDelay, func() { e.finish(id, forceSuccess) }) {
		logger.Warnf("ingestion %s: engine closed, completion not scheduled", id)
	}
}

func (e *Engine) finish(id string, forceSuccess bool) {
	fail := !forceSuccess && e.opts.FailureRate > 0 && e.float() < e.opts.FailureRate
	now := e.clock.Now()
	ing, err := e.store.Ingestions.Update(id, func(i *models.Ingestion) error {
		if i.Status != models.IngestionInProgress {
			return errNotRunning
		}
		i.EndTime = &now
		if fail {
			i.Status = models.IngestionFailed
			i.ProcessedPages = e.intN(i.TotalPages)
			i.Error = SimulatedFailure
		} else {
			i.Status = models.IngestionCompleted
			i.ProcessedPages = i.TotalPages
			i.Error = ""
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Warnf("ingestion %s vanished before completion", id)
		return
	case errors.Is(err, errNotRunning):
		logger.Debugf("ingestion %s no longer in progress, completion skipped", id)
		return
	case err != nil:
		logger.Errorf("ingestion %s: completion failed: %v", id, err)
		return
	}
	metrics.IngestionTransitions.WithLabelValues(string(models.IngestionInProgress), string(ing.Status)).Inc()
	if fail {
		logger.Warnf("ingestion %s failed after %d/%d pages", id, ing.ProcessedPages, ing.TotalPages)
		e.setDocumentStatus(ing, models.DocumentFailed)
		return
	}
	logger.Infof("ingestion %s completed (%d pages)", id, ing.TotalPages)
	e.setDocumentStatus(ing, models.DocumentProcessed)
}

func (e *Engine) setDocumentStatus(ing models.Ingestion, status models.DocumentStatus) {
	_, err := e.store.Documents.Update(ing.DocumentID, func(d *models.Document) error {
		d.Status = status
		return nil
	})
	if err != nil {
		logger.Warnf("ingestion %s: document %s not updated to %s: %v", ing.ID, ing.DocumentID, status, err)
	}
}

func (e *Engine) totalPages() int {
	return e.opts.MinPages + e.intN(e.opts.MaxPages-e.opts.MinPages+1)
}

func (e *Engine) intN(n int) int {
	if n <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.IntN(n)
}

func (e *Engine) float() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Float64()
}
