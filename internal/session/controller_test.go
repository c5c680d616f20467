package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/prompt"
	"github.com/kapu/instaplanner-ai-go/internal/service/ai"
	"github.com/kapu/instaplanner-ai-go/internal/service/plan"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	mu      sync.Mutex
	result  *domain.AnalysisResult
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
}

func (g *stubGenerator) Generate(ctx context.Context, _ domain.UserInput) (*domain.AnalysisResult, *ai.GenerateMetadata, error) {
	g.mu.Lock()
	g.calls++
	block, started := g.block, g.started
	g.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	if g.err != nil {
		return nil, nil, g.err
	}
	return g.result.Clone(), &ai.GenerateMetadata{Provider: "stub"}, nil
}

type scriptedProvider struct {
	reply  string
	prompt string
}

func (p *scriptedProvider) Name() string { return "Scripted" }

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ ai.ModelPreset, _ *ai.GenerateOptions) (ai.ProviderResult, error) {
	p.prompt = prompt
	return ai.ProviderResult{Text: p.reply, Model: "scripted"}, nil
}

func (p *scriptedProvider) Ping(context.Context) bool { return true }

func analysisWith(statuses ...domain.PostStatus) *domain.AnalysisResult {
	posts := make([]domain.PostPlan, len(statuses))
	for i, s := range statuses {
		posts[i] = domain.PostPlan{
			Day:      i*2 + 1,
			Title:    fmt.Sprintf("post %d", i),
			Type:     domain.PostTypeCarousel,
			Hashtags: []string{"tag"},
			Status:   s,
		}
	}
	return domain.NewAnalysisResult(domain.ContentStrategy{TargetAudience: "audience"}, posts)
}

func brandInput() domain.UserInput {
	return domain.UserInput{
		AccountName:      "@brand",
		Niche:            "fitness",
		CurrentFollowers: "1000",
		Goal:             "grow",
		RecentTopics:     "workouts, meals",
		BenchmarkAccount: "",
	}
}

func fastBatchConfig() scheduler.Config {
	return scheduler.Config{
		TotalDuration: 20 * time.Millisecond,
		StepInterval:  2 * time.Millisecond,
		DoneDisplay:   time.Hour,
	}
}

func newController(t *testing.T, gen Generator) (*Controller, *plan.Board) {
	t.Helper()
	return newControllerWithBatch(t, gen, fastBatchConfig())
}

func newControllerWithBatch(t *testing.T, gen Generator, cfg scheduler.Config) (*Controller, *plan.Board) {
	t.Helper()
	board := plan.NewBoard()
	batch := scheduler.NewBatchScheduler(cfg, board, zap.NewNop())
	c := NewController(gen, board, batch, nil, zap.NewNop())
	t.Cleanup(c.Close)
	return c, board
}

func TestSubmitResetsStatusesToPlanned(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusScheduled, domain.PostStatusUploaded, "published")}
	c, board := newController(t, gen)

	result, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)

	for _, p := range result.MonthlyPlan {
		assert.Equal(t, domain.PostStatusPlanned, p.Status)
	}
	assert.Equal(t, []domain.PostStatus{
		domain.PostStatusPlanned, domain.PostStatusPlanned, domain.PostStatusPlanned,
	}, board.Statuses())

	state := c.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, 3, state.PendingCount)
	assert.Equal(t, "stub", state.Metadata.Provider)
}

func TestBrandScenarioWithoutBenchmark(t *testing.T) {
	reply := `{
	  "strategy": {
	    "targetAudience": "홈트 입문자",
	    "toneAndManner": "친근함",
	    "benchmarkAnalysis": "벤치마킹 계정이 없으므로 일반적인 경쟁 전략을 제안합니다.",
	    "contentPillars": ["운동", "식단", "일상"],
	    "growthKeywords": ["홈트", "식단", "운동루틴", "건강", "오운완"],
	    "improvementSuggestions": "꾸준히 업로드하세요."
	  },
	  "monthlyPlan": [
	    {"day": 1, "title": "루틴", "type": "Reels", "caption": "c", "hashtags": ["홈트"], "visualPrompt": "v", "status": "planned"},
	    {"day": 4, "title": "식단", "type": "Image", "caption": "c", "hashtags": ["식단"], "visualPrompt": "v", "status": "scheduled"}
	  ]
	}`
	provider := &scriptedProvider{reply: reply}
	validator, err := ai.NewStrategyValidator()
	require.NoError(t, err)
	gen := ai.NewStrategyGenerator(ai.NewModelManager(provider, time.Second, zap.NewNop()), prompt.NewPromptBuilder(), validator, zap.NewNop())
	c, _ := newController(t, gen)

	result, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "general competitive advice")
	assert.NotEmpty(t, result.Strategy.BenchmarkAnalysis)
	require.NotEmpty(t, result.MonthlyPlan)
	for _, p := range result.MonthlyPlan {
		assert.Equal(t, domain.PostStatusPlanned, p.Status)
	}
}

func TestSubmitFailureKeepsPriorResult(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusPlanned, domain.PostStatusPlanned)}
	c, board := newController(t, gen)

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)
	require.NoError(t, c.ToggleStatus(1))
	before := c.State().Result

	gen.err = errors.NewGenerationError("Scripted API returned empty response", errors.StageEmpty, "Scripted", nil)
	_, err = c.SubmitAnalysis(context.Background(), brandInput())
	assert.True(t, errors.IsGenerationFailure(err))

	state := c.State()
	assert.Equal(t, errors.GenerationFailureMessage, state.Error)
	assert.Equal(t, before, state.Result)
	assert.Equal(t, []domain.PostStatus{domain.PostStatusPlanned, domain.PostStatusScheduled}, board.Statuses())
}

func TestSubmitFailureWithNoPriorResult(t *testing.T) {
	gen := &stubGenerator{err: errors.NewGenerationError("empty", errors.StageEmpty, "stub", nil)}
	c, _ := newController(t, gen)

	result, err := c.SubmitAnalysis(context.Background(), brandInput())
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Nil(t, c.State().Result)
}

func TestValidationFailureMessage(t *testing.T) {
	gen := &stubGenerator{err: errors.NewValidationError("niche is required", "niche", "")}
	c, _ := newController(t, gen)

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, errors.InvalidInputMessage, c.State().Error)
}

func TestConcurrentSubmissionIsRejected(t *testing.T) {
	gen := &stubGenerator{
		result:  analysisWith(domain.PostStatusPlanned),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c, _ := newController(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitAnalysis(context.Background(), brandInput())
		done <- err
	}()
	<-gen.started

	assert.True(t, c.State().Loading)
	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	assert.ErrorIs(t, err, errors.ErrGenerationInProgress)

	close(gen.block)
	require.NoError(t, <-done)
	assert.False(t, c.State().Loading)
	assert.Equal(t, 1, gen.calls)
}

func TestResetDuringAnalysisDiscardsResult(t *testing.T) {
	gen := &stubGenerator{
		result:  analysisWith(domain.PostStatusPlanned),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c, board := newController(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitAnalysis(context.Background(), brandInput())
		done <- err
	}()
	<-gen.started

	c.ResetSession()
	close(gen.block)

	assert.ErrorIs(t, <-done, errors.ErrSessionReset)
	assert.False(t, board.HasResult())
	assert.False(t, c.State().Loading)
}

func TestToggleThroughController(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusPlanned, domain.PostStatusPlanned)}
	c, board := newController(t, gen)

	assert.ErrorIs(t, c.ToggleStatus(0), errors.ErrNoAnalysis)

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)

	require.NoError(t, c.ToggleStatus(0))
	assert.Equal(t, []domain.PostStatus{domain.PostStatusScheduled, domain.PostStatusPlanned}, board.Statuses())
	assert.True(t, errors.IsInvalidIndex(c.ToggleStatus(2)))
	assert.Equal(t, []domain.PostStatus{domain.PostStatusScheduled, domain.PostStatusPlanned}, board.Statuses())
}

func TestBatchScheduleScenario(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusPlanned, domain.PostStatusPlanned)}
	c, board := newController(t, gen)

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)
	require.NoError(t, c.ToggleStatus(1))

	require.True(t, c.StartBatchSchedule(context.Background()))
	assert.False(t, c.StartBatchSchedule(context.Background()))

	assert.Eventually(t, func() bool {
		return c.State().Batch.Phase == scheduler.PhaseDone
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.PostStatus{domain.PostStatusScheduled, domain.PostStatusScheduled}, board.Statuses())
	assert.Zero(t, c.State().PendingCount)
}

func TestBatchWithEmptySequenceIsNoop(t *testing.T) {
	gen := &stubGenerator{result: analysisWith()}
	c, board := newController(t, gen)

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)

	assert.False(t, c.StartBatchSchedule(context.Background()))
	assert.Equal(t, []domain.PostStatus{}, board.Statuses())
	assert.Equal(t, scheduler.PhaseIdle, c.State().Batch.Phase)
}

func TestResetSessionClearsEverything(t *testing.T) {
	gen := &stubGenerator{err: errors.NewGenerationError("empty", errors.StageEmpty, "stub", nil)}
	c, _ := newController(t, gen)
	_, _ = c.SubmitAnalysis(context.Background(), brandInput())
	require.NotEmpty(t, c.State().Error)

	c.ResetSession()

	state := c.State()
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Result)
	assert.Nil(t, state.Metadata)
	assert.Zero(t, state.PendingCount)
}

func slowBatchConfig() scheduler.Config {
	return scheduler.Config{
		TotalDuration: 200 * time.Millisecond,
		StepInterval:  2 * time.Millisecond,
		DoneDisplay:   time.Hour,
	}
}

func TestResetStopsBatchBeforeNextAnalysis(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusPlanned)}
	c, board := newControllerWithBatch(t, gen, slowBatchConfig())

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)
	require.True(t, c.StartBatchSchedule(context.Background()))

	c.ResetSession()
	assert.Equal(t, scheduler.PhaseIdle, c.State().Batch.Phase)

	gen.result = analysisWith(domain.PostStatusPlanned, domain.PostStatusPlanned, domain.PostStatusPlanned)
	_, err = c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []domain.PostStatus{
		domain.PostStatusPlanned, domain.PostStatusPlanned, domain.PostStatusPlanned,
	}, board.Statuses())
	assert.Equal(t, scheduler.PhaseIdle, c.State().Batch.Phase)
	assert.Equal(t, 3, c.State().PendingCount)
}

func TestNewAnalysisStopsRunningBatch(t *testing.T) {
	gen := &stubGenerator{result: analysisWith(domain.PostStatusPlanned, domain.PostStatusPlanned)}
	c, board := newControllerWithBatch(t, gen, slowBatchConfig())

	_, err := c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)
	require.True(t, c.StartBatchSchedule(context.Background()))

	_, err = c.SubmitAnalysis(context.Background(), brandInput())
	require.NoError(t, err)
	assert.Equal(t, scheduler.PhaseIdle, c.State().Batch.Phase)

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []domain.PostStatus{domain.PostStatusPlanned, domain.PostStatusPlanned}, board.Statuses())

	require.True(t, c.StartBatchSchedule(context.Background()))
	assert.Eventually(t, func() bool {
		return c.State().Batch.Phase == scheduler.PhaseDone
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.PostStatus{domain.PostStatusScheduled, domain.PostStatusScheduled}, board.Statuses())
}
