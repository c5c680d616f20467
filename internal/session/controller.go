// Package session holds the state of one planning session and is the only
// entry point the presentation layer uses.
package session

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/metrics"
	"github.com/kapu/instaplanner-ai-go/internal/service/ai"
	"github.com/kapu/instaplanner-ai-go/internal/service/plan"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"go.uber.org/zap"
)

// Generator produces a candidate analysis without touching session state.
type Generator interface {
	Generate(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, *ai.GenerateMetadata, error)
}

// Batch is the scheduler surface the controller drives.
type Batch interface {
	Start(ctx context.Context) error
	Cancel() bool
	Snapshot() scheduler.Snapshot
	Close()
}

// State is a point-in-time copy for rendering.
type State struct {
	Loading      bool
	Error        string
	Result       *domain.AnalysisResult
	Metadata     *ai.GenerateMetadata
	PendingCount int
	Batch        scheduler.Snapshot
}

type Controller struct {
	generator Generator
	board     *plan.Board
	batch     Batch
	metrics   metrics.Recorder
	logger    *zap.Logger

	mu       sync.Mutex
	loading  bool
	epoch    uint64
	errorMsg string
	metadata *ai.GenerateMetadata
}

// NewController wires a session. batch must complete against board.
func NewController(generator Generator, board *plan.Board, batch Batch, recorder metrics.Recorder, logger *zap.Logger) *Controller {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Controller{
		generator: generator,
		board:     board,
		batch:     batch,
		metrics:   recorder,
		logger:    logger,
	}
}

// SubmitAnalysis runs one generation and installs the result only on success.
// A second submission while one is outstanding fails with ErrGenerationInProgress.
// Installing a result stops any batch run started for the previous one.
func (c *Controller) SubmitAnalysis(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, errors.ErrGenerationInProgress
	}
	c.loading = true
	c.errorMsg = ""
	epoch := c.epoch
	c.mu.Unlock()

	result, meta, err := c.generator.Generate(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if c.epoch != epoch {
		c.logger.Info("Discarding analysis finished after session reset")
		return nil, errors.ErrSessionReset
	}

	if err != nil {
		c.errorMsg = userMessage(err)
		c.logger.Warn("Analysis failed",
			zap.String("account", in.AccountName),
			zap.Error(err),
		)
		return nil, err
	}

	result.ResetStatuses()
	c.batch.Cancel()
	c.board.Replace(result)
	c.metadata = meta

	c.logger.Info("Analysis installed",
		zap.String("id", result.ID),
		zap.Int("posts", len(result.MonthlyPlan)),
	)
	return result.Clone(), nil
}

// ToggleStatus flips one post between planned and scheduled.
func (c *Controller) ToggleStatus(i int) error {
	if !c.board.HasResult() {
		return errors.ErrNoAnalysis
	}

	status, err := c.board.ToggleStatus(i)
	if err != nil {
		c.logger.Warn("Toggle rejected", zap.Int("index", i), zap.Error(err))
		return err
	}

	c.metrics.RecordToggle(string(status))
	c.logger.Debug("Post status toggled", zap.Int("index", i), zap.String("status", string(status)))
	return nil
}

// StartBatchSchedule reports whether a run started. Already running and
// nothing pending are silent no-ops.
func (c *Controller) StartBatchSchedule(ctx context.Context) bool {
	err := c.batch.Start(ctx)
	switch {
	case err == nil:
		return true
	case stderrors.Is(err, errors.ErrBatchAlreadyRunning), stderrors.Is(err, errors.ErrNothingPending):
		c.logger.Debug("Batch schedule not started", zap.Error(err))
		return false
	default:
		c.logger.Warn("Batch schedule failed to start", zap.Error(err))
		return false
	}
}

// ResetSession discards the result, the error, any analysis still in flight
// and any batch run.
func (c *Controller) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.errorMsg = ""
	c.metadata = nil

	c.batch.Cancel()
	c.board.Clear()
	c.logger.Info("Session reset")
}

func (c *Controller) State() State {
	c.mu.Lock()
	state := State{
		Loading: c.loading,
		Error:   c.errorMsg,
	}
	if c.metadata != nil {
		meta := *c.metadata
		state.Metadata = &meta
	}
	c.mu.Unlock()

	state.Result = c.board.Result()
	state.PendingCount = state.Result.PendingCount()
	state.Batch = c.batch.Snapshot()
	return state
}

func (c *Controller) Close() {
	c.batch.Close()
}

func userMessage(err error) string {
	var genErr *errors.GenerationError
	if stderrors.As(err, &genErr) {
		return genErr.UserMessage()
	}
	if errors.IsValidation(err) {
		return errors.InvalidInputMessage
	}
	return errors.GenerationFailureMessage
}
