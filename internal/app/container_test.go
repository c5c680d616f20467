package app

import (
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kapu/instaplanner-ai-go/internal/config"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/service/ai"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const reply = `{"strategy": {"targetAudience": "a", "toneAndManner": "b", "benchmarkAnalysis": "c", "contentPillars": ["p1", "p2", "p3"], "growthKeywords": ["k"], "improvementSuggestions": "d"},
"monthlyPlan": [{"day": 1, "title": "t", "type": "Reels", "caption": "c", "hashtags": ["h"], "visualPrompt": "v", "status": "planned"}]}`

type countingProvider struct {
	calls int
}

func (p *countingProvider) Name() string { return "Counting" }

func (p *countingProvider) Generate(context.Context, string, ai.ModelPreset, *ai.GenerateOptions) (ai.ProviderResult, error) {
	p.calls++
	return ai.ProviderResult{Text: reply, Model: "counting"}, nil
}

func (p *countingProvider) Ping(context.Context) bool { return true }

func testConfig() *config.Config {
	return &config.Config{
		AI:     config.AIConfig{Provider: config.ProviderGemini, Timeout: time.Second},
		Gemini: config.GeminiConfig{APIKey: "unused"},
		Redis:  config.RedisConfig{TTL: time.Minute},
		Batch: config.BatchConfig{
			TotalDuration: 10 * time.Millisecond,
			StepInterval:  time.Millisecond,
			DoneDisplay:   time.Hour,
		},
	}
}

func input() domain.UserInput {
	return domain.UserInput{
		AccountName:      "@brand",
		Niche:            "fitness",
		CurrentFollowers: "1000",
		Goal:             "grow",
		RecentTopics:     "workouts",
	}
}

func TestBuildRequiresConfigAndLogger(t *testing.T) {
	_, err := Build(context.Background(), nil, zap.NewNop())
	assert.Error(t, err)

	_, err = Build(context.Background(), testConfig(), nil)
	assert.Error(t, err)
}

func TestBuildWiresSession(t *testing.T) {
	provider := &countingProvider{}
	completed := make(chan int, 1)
	c, err := Build(context.Background(), testConfig(), zap.NewNop(),
		WithProvider(provider),
		WithBatchListener(scheduler.Listener{OnComplete: func(n int) { completed <- n }}),
	)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "Counting", c.Models.ProviderName())

	_, err = c.Session.SubmitAnalysis(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Board.PendingCount())

	require.True(t, c.Session.StartBatchSchedule(context.Background()))
	select {
	case n := <-completed:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not complete")
	}
	assert.Equal(t, []domain.PostStatus{domain.PostStatusScheduled}, c.Board.Statuses())

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `instaplanner_generations_total{outcome="success"} 1`)
	assert.Contains(t, body, `instaplanner_batch_runs_total{outcome="completed"} 1`)
	assert.Contains(t, body, "instaplanner_posts_batch_scheduled_total 1")
}

func TestBuildWithRedisCachesAnalyses(t *testing.T) {
	mr := miniredis.RunT(t)
	host, portStr, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Host = host
	cfg.Redis.Port = port

	provider := &countingProvider{}
	c, err := Build(context.Background(), cfg, zap.NewNop(), WithProvider(provider))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Session.SubmitAnalysis(context.Background(), input())
	require.NoError(t, err)
	_, err = c.Session.SubmitAnalysis(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.True(t, c.Session.State().Metadata.CacheHit)
	assert.Len(t, mr.Keys(), 1)
}

func TestBuildSkipsUnreachableRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = 1

	c, err := Build(context.Background(), cfg, zap.NewNop(), WithProvider(&countingProvider{}))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Session.SubmitAnalysis(context.Background(), input())
	assert.NoError(t, err)
}
