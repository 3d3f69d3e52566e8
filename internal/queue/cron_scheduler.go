package queue

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// oneShot is a cron.Schedule that yields its time exactly once. A time in the
// past fires as soon as the cron loop sees it.
type oneShot struct {
	at     time.Time
	handed atomic.Bool
}

func (o *oneShot) Next(time.Time) time.Time {
	if o.handed.Swap(true) {
		return time.Time{}
	}
	return o.at
}

type registration struct {
	entry cron.EntryID
	gen   uint64
}

// CronScheduler runs triggers in process on a robfig/cron runner. Every fired
// job gets its own goroutine, so a stuck handler never blocks other triggers.
type CronScheduler struct {
	cron    *cron.Cron
	handler JobFunc

	mu      sync.Mutex
	entries map[string]registration
	gen     uint64
	running atomic.Bool
}

// NewCronScheduler wraps c. The same runner can host recurring jobs added
// directly on c.
func NewCronScheduler(c *cron.Cron, handler JobFunc) *CronScheduler {
	return &CronScheduler{
		cron:    c,
		handler: handler,
		entries: make(map[string]registration),
	}
}

// NewCron builds the shared runner with panic recovery around every job.
func NewCron(logger cron.Logger) *cron.Cron {
	return cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
}

func (s *CronScheduler) Schedule(id string, t time.Time) error {
	if id == "" || t.IsZero() {
		return ErrInvalidTriggerTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[id]; ok {
		s.cron.Remove(old.entry)
	}

	s.gen++
	gen := s.gen
	entry := s.cron.Schedule(&oneShot{at: t}, cron.FuncJob(func() {
		s.fire(id, gen)
	}))
	s.entries[id] = registration{entry: entry, gen: gen}

	slog.Info("trigger registered", "post_id", id, "at", t.Format(time.RFC3339))
	return nil
}

// fire runs the handler only if this registration is still the current one.
func (s *CronScheduler) fire(id string, gen uint64) {
	s.mu.Lock()
	reg, ok := s.entries[id]
	if !ok || reg.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.entries, id)
	s.cron.Remove(reg.entry)
	s.mu.Unlock()

	slog.Info("trigger fired", "post_id", id)
	s.handler(id)
}

func (s *CronScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.entries[id]
	if !ok {
		return
	}
	s.cron.Remove(reg.entry)
	delete(s.entries, id)
	slog.Info("trigger cancelled", "post_id", id)
}

func (s *CronScheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *CronScheduler) Running() bool {
	return s.running.Load()
}

func (s *CronScheduler) Start() error {
	s.cron.Start()
	s.running.Store(true)
	return nil
}

func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.running.Store(false)
}
