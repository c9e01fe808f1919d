// Package poller re-fetches the ingestion list on a fixed interval for as
// long as the latest list still has an ingestion in progress.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/jonboulle/clockwork"
)

// FetchFunc reads the current ingestion list. The poller never mutates state
// itself.
type FetchFunc func(ctx context.Context) ([]models.Ingestion, error)

// Poller keeps at most one fetch timer armed. A chain of ticks starts when an
// observed list has an in-progress ingestion and ends with the first list that
// has none. A failed fetch keeps the chain going.
type Poller struct {
	clock    clockwork.Clock
	interval time.Duration
	fetch    FetchFunc
	onUpdate func([]models.Ingestion)

	mu     sync.Mutex
	ctx    context.Context
	active bool
	gen    uint64
	timer  clockwork.Timer
}

// New returns an idle poller. onUpdate may be nil.
func New(clock clockwork.Clock, interval time.Duration, fetch FetchFunc, onUpdate func([]models.Ingestion)) *Poller {
	return &Poller{
		clock:    clock,
		interval: interval,
		fetch:    fetch,
		onUpdate: onUpdate,
		ctx:      context.Background(),
	}
}

// Observe feeds a freshly fetched list to the poller: polling starts, if not
// already running, when list has an in-progress ingestion and stops otherwise.
func (p *Poller) Observe(list []models.Ingestion) {
	if models.AnyInProgress(list) {
		p.start()
		return
	}
	p.Stop()
}

// Active reports whether a poll chain is running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stop cancels the pending tick, if any. A fetch already in flight completes
// but its result neither reaches onUpdate nor re-arms the timer.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.active = false
	p.gen++
	logger.Debug("poller: stopped")
}

// Run fetches once, then keeps polling as needed until ctx is done. Once Run
// returns, later ticks fetch with a background context again.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	defer func() {
		p.Stop()
		p.mu.Lock()
		p.ctx = context.Background()
		p.mu.Unlock()
	}()

	list, err := p.fetch(ctx)
	metrics.PollFetches.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		logger.Warnf("poller: initial fetch failed: %v", err)
		p.start()
	} else {
		if p.onUpdate != nil {
			p.onUpdate(list)
		}
		p.Observe(list)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *Poller) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return
	}
	p.active = true
	p.gen++
	p.arm(p.gen)
	logger.Debugf("poller: started, every %s", p.interval)
}

// arm must be called with p.mu held.
func (p *Poller) arm(gen uint64) {
	p.timer = p.clock.AfterFunc(p.interval, func() { go p.tick(gen) })
}

func (p *Poller) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || !p.active {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	ctx := p.ctx
	p.mu.Unlock()

	list, err := p.fetch(ctx)
	metrics.PollFetches.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		logger.Warnf("poller: fetch failed: %v", err)
	}

	if !p.current(gen) {
		return
	}
	if err == nil && p.onUpdate != nil {
		p.onUpdate(list)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// stopped while onUpdate ran
	if gen != p.gen {
		return
	}
	switch {
	case ctx.Err() != nil:
		logger.Debugf("poller: context done (%v), stopped", ctx.Err())
	case err != nil || models.AnyInProgress(list):
		p.arm(gen)
		return
	default:
		logger.Debug("poller: nothing in progress, stopped")
	}
	p.active = false
	p.gen++
}

func (p *Poller) current(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen == p.gen
}
