package ingestion

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs deferred work keyed by ingestion id. Scheduling a key that is
// already pending replaces the earlier task; a cancelled task never runs, even
// if its timer already fired.
type Scheduler struct {
	clock clockwork.Clock

	mu     sync.Mutex
	tasks  map[string]*task
	closed bool
}

type task struct {
	timer clockwork.Timer
}

func NewScheduler(clock clockwork.Clock) *Scheduler {
	return &Scheduler{clock: clock, tasks: make(map[string]*task)}
}

// Schedule arranges for fn to run after d. It returns false once the
// scheduler is closed.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}
	t := &task{}
	s.tasks[key] = t
	// run off the clock's goroutine: fn may schedule again
	t.timer = s.clock.AfterFunc(d, func() { go s.fire(key, t, fn) })
	return true
}

func (s *Scheduler) fire(key string, t *task, fn func()) {
	s.mu.Lock()
	if s.tasks[key] != t {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.mu.Unlock()
	fn()
}

// Cancel drops the pending task for key and reports whether one existed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	return true
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every pending task and rejects new ones. It returns the
// number of tasks cancelled.
func (s *Scheduler) Close() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tasks)
	for key, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, key)
	}
	s.closed = true
	return n
}
