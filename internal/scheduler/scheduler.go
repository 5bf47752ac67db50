package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is how often the board polls for odds
const DefaultInterval = 120 * time.Second

// Task is one scheduled unit of work (a board refresh)
type Task func(ctx context.Context) error

// Ticker delivers ticks; *time.Ticker satisfies it through tickerAdapter
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates the ticker for a given interval
type TickerFactory func(interval time.Duration) Ticker

type tickerAdapter struct {
	t *time.Ticker
}

func (a tickerAdapter) C() <-chan time.Time { return a.t.C }
func (a tickerAdapter) Stop()               { a.t.Stop() }

func realTicker(interval time.Duration) Ticker {
	return tickerAdapter{t: time.NewTicker(interval)}
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithTicker replaces the wall-clock ticker, so tests can tick by hand
func WithTicker(f TickerFactory) Option {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// Scheduler runs a task once at start and then on every tick. Runs are not
// serialized: a run that outlasts the interval overlaps with the next one.
type Scheduler struct {
	interval  time.Duration
	task      Task
	newTicker TickerFactory
	log       logrus.FieldLogger

	mu       sync.Mutex
	started  bool
	stopChan chan struct{}
	stopOnce sync.Once
	loopDone chan struct{}
	runs     sync.WaitGroup
}

// ErrAlreadyStarted is returned when Start is called twice
var ErrAlreadyStarted = errors.New("scheduler already started")

// NewScheduler creates a scheduler for task at the given interval
func NewScheduler(interval time.Duration, task Task, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scheduler{
		interval:  interval,
		task:      task,
		newTicker: realTicker,
		log:       logrus.StandardLogger(),
		stopChan:  make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "scheduler")
	return s
}

// Interval returns the polling interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start runs the task immediately and then on every tick until Stop is called
// or ctx is cancelled. It returns without waiting for the first run.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	ticker := s.newTicker(s.interval)

	// Initial run immediately
	s.spawn(ctx)

	go func() {
		defer close(s.loopDone)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C():
				s.spawn(ctx)

			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	s.log.WithField("interval", s.interval).Info("polling started")
	return nil
}

// Stop halts the ticker and waits for in-flight runs. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.loopDone
	}
	s.runs.Wait()
}

func (s *Scheduler) spawn(ctx context.Context) {
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		if err := s.task(ctx); err != nil {
			s.log.WithError(err).Warn("scheduled run failed")
		}
	}()
}
