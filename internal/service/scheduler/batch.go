// Package scheduler simulates bulk submission of planned posts with timed progress.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/constants"
	"github.com/kapu/instaplanner-ai-go/internal/metrics"
	"github.com/kapu/instaplanner-ai-go/internal/util"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseDone    Phase = "done"
)

// Target is the plan collection a batch run completes against.
type Target interface {
	PendingCount() int
	MarkAllReadyAsScheduled() int
}

// Listener receives run events on the run goroutine, one at a time.
type Listener struct {
	OnProgress func(progress float64)
	OnComplete func(scheduled int)
}

type Config struct {
	TotalDuration time.Duration
	StepInterval  time.Duration
	DoneDisplay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		TotalDuration: constants.BatchConfig.TotalDuration,
		StepInterval:  constants.BatchConfig.StepInterval,
		DoneDisplay:   constants.BatchConfig.DoneDisplay,
	}
}

// Steps is the number of progress updates in one run, at least 1.
func (c Config) Steps() int {
	if c.StepInterval <= 0 {
		return 1
	}
	steps := int(c.TotalDuration / c.StepInterval)
	if steps < 1 {
		return 1
	}
	return steps
}

type Snapshot struct {
	Phase    Phase
	Step     int
	Steps    int
	Progress float64
}

// Progress maps a step to a percentage in [0, 100]. The last step is exactly 100.
func Progress(step, steps int) float64 {
	if step >= steps {
		return 100
	}
	return util.Percent(step, steps)
}

// BatchScheduler runs idle -> running(step) -> done -> idle. At most one run is in flight.
type BatchScheduler struct {
	cfg      Config
	target   Target
	clock    Clock
	listener Listener
	metrics  metrics.Recorder
	logger   *zap.Logger

	mu        sync.Mutex
	phase     Phase
	step      int
	runID     uint64
	stop      chan struct{}
	doneTimer Timer
	closed    bool
	closing   chan struct{}
	wg        conc.WaitGroup
}

type Option func(*BatchScheduler)

func WithClock(clock Clock) Option {
	return func(s *BatchScheduler) { s.clock = clock }
}

func WithListener(l Listener) Option {
	return func(s *BatchScheduler) { s.listener = l }
}

func WithMetrics(recorder metrics.Recorder) Option {
	return func(s *BatchScheduler) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

func NewBatchScheduler(cfg Config, target Target, logger *zap.Logger, opts ...Option) *BatchScheduler {
	s := &BatchScheduler{
		cfg:     cfg,
		target:  target,
		clock:   RealClock(),
		metrics: metrics.Nop{},
		logger:  logger,
		phase:   PhaseIdle,
		closing: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a run. It fails with ErrBatchAlreadyRunning while a run is in
// flight and with ErrNothingPending when no post is planned; neither emits events.
// Cancelling ctx stops the run without completing it.
func (s *BatchScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return context.Canceled
	}
	if s.phase == PhaseRunning {
		s.metrics.RecordBatchRun("rejected")
		return errors.ErrBatchAlreadyRunning
	}
	pending := s.target.PendingCount()
	if pending == 0 {
		s.metrics.RecordBatchRun("rejected")
		return errors.ErrNothingPending
	}

	if s.doneTimer != nil {
		s.doneTimer.Stop()
		s.doneTimer = nil
	}
	s.runID++
	s.phase = PhaseRunning
	s.step = 0

	id := s.runID
	stop := make(chan struct{})
	s.stop = stop
	ticker := s.clock.NewTicker(s.cfg.StepInterval)
	s.wg.Go(func() {
		s.run(ctx, ticker, stop, id)
	})

	s.logger.Info("Batch schedule started",
		zap.Int("pending", pending),
		zap.Int("steps", s.cfg.Steps()),
		zap.Duration("duration", s.cfg.TotalDuration),
	)
	return nil
}

func (s *BatchScheduler) run(ctx context.Context, ticker Ticker, stop <-chan struct{}, id uint64) {
	defer ticker.Stop()

	steps := s.cfg.Steps()
	s.emitProgress(0)

	for {
		select {
		case <-ctx.Done():
			s.abort(id, ctx.Err())
			return
		case <-s.closing:
			s.abort(id, context.Canceled)
			return
		case <-stop:
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				s.abort(id, ctx.Err())
				return
			}
			step, ok := s.advance(id)
			if !ok {
				return
			}
			s.emitProgress(Progress(step, steps))
			if step >= steps {
				s.complete(ctx, id)
				return
			}
		}
	}
}

func (s *BatchScheduler) advance(id uint64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID != id || s.phase != PhaseRunning {
		return 0, false
	}
	s.step++
	return s.step, true
}

func (s *BatchScheduler) complete(ctx context.Context, id uint64) {
	if ctx.Err() != nil {
		s.abort(id, ctx.Err())
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.abort(id, context.Canceled)
		return
	}
	if s.runID != id || s.phase != PhaseRunning {
		s.mu.Unlock()
		return
	}
	s.stop = nil
	scheduled := s.target.MarkAllReadyAsScheduled()
	s.phase = PhaseDone
	s.doneTimer = s.clock.AfterFunc(s.cfg.DoneDisplay, func() { s.clearDone(id) })
	s.mu.Unlock()

	s.metrics.RecordBatchRun("completed")
	s.metrics.RecordPostsScheduled(scheduled)
	s.logger.Info("Batch schedule completed", zap.Int("scheduled", scheduled))

	if s.listener.OnComplete != nil {
		s.listener.OnComplete(scheduled)
	}
}

func (s *BatchScheduler) abort(id uint64, cause error) {
	s.mu.Lock()
	if s.runID == id && s.phase == PhaseRunning {
		s.phase = PhaseIdle
		s.step = 0
		s.stop = nil
	}
	s.mu.Unlock()

	s.metrics.RecordBatchRun("aborted")
	s.logger.Warn("Batch schedule aborted", zap.Error(cause))
}

func (s *BatchScheduler) clearDone(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID != id || s.phase != PhaseDone {
		return
	}
	s.phase = PhaseIdle
	s.step = 0
	s.doneTimer = nil
}

// Cancel returns the scheduler to idle. A run in flight stops without
// completing and a pending done display is cleared. It reports whether a run
// was stopped.
func (s *BatchScheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doneTimer != nil {
		s.doneTimer.Stop()
		s.doneTimer = nil
	}
	wasRunning := s.phase == PhaseRunning
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.runID++
	s.phase = PhaseIdle
	s.step = 0

	if wasRunning {
		s.metrics.RecordBatchRun("cancelled")
		s.logger.Info("Batch schedule cancelled")
	}
	return wasRunning
}

func (s *BatchScheduler) emitProgress(progress float64) {
	if s.listener.OnProgress != nil {
		s.listener.OnProgress(progress)
	}
}

func (s *BatchScheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := s.cfg.Steps()
	snap := Snapshot{Phase: s.phase, Step: s.step, Steps: steps}
	switch s.phase {
	case PhaseRunning:
		snap.Progress = Progress(s.step, steps)
	case PhaseDone:
		snap.Progress = 100
	}
	return snap
}

// Close stops any run in flight without completing it and waits for its goroutine.
func (s *BatchScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.closing)
	if s.doneTimer != nil {
		s.doneTimer.Stop()
		s.doneTimer = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}
