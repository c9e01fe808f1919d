// Package latency emulates network latency and transient failures in front of
// the in-memory store. Every service call passes through Simulator.Wait.
package latency

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/jonboulle/clockwork"
)

// Op is an operation weight class.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpUpload Op = "upload"
	OpAsk    Op = "ask"
	OpRetry  Op = "retry"
)

type Simulator struct {
	clock       clockwork.Clock
	delays      map[Op]time.Duration
	failureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a simulator from config. A nil rnd uses a randomly seeded source.
func New(clock clockwork.Clock, cfg config.LatencyConfig, rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulator{
		clock: clock,
		delays: map[Op]time.Duration{
			OpList:   cfg.List,
			OpGet:    cfg.Get,
			OpCreate: cfg.Create,
			OpUpdate: cfg.Update,
			OpDelete: cfg.Delete,
			OpUpload: cfg.Upload,
			OpAsk:    cfg.Ask,
			OpRetry:  cfg.Retry,
		},
		failureRate: cfg.FailureRate,
		rnd:         rnd,
	}
}

// Instant returns a simulator with no delay and no failures.
func Instant() *Simulator {
	return New(clockwork.NewRealClock(), config.LatencyConfig{}, nil)
}

// Delay returns the configured delay for op.
func (s *Simulator) Delay(op Op) time.Duration {
	return s.delays[op]
}

// Wait blocks for op's delay, then fails with apperr.ErrUnavailable with the
// configured probability. It returns ctx.Err() if ctx ends first.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	d := s.delays[op]
	metrics.SimulatedLatency.WithLabelValues(string(op)).Observe(d.Seconds())
	if d > 0 {
		select {
		case <-s.clock.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if s.failureRate > 0 && s.roll() < s.failureRate {
		return fmt.Errorf("%w: simulated %s failure", apperr.ErrUnavailable, op)
	}
	return nil
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
