package ai

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/metrics"
	"github.com/kapu/instaplanner-ai-go/internal/prompt"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"go.uber.org/zap"
)

// ResultCache is an optional store of previously generated analyses.
type ResultCache interface {
	Lookup(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, bool, error)
	Store(ctx context.Context, in domain.UserInput, result *domain.AnalysisResult) error
}

type strategyPayload struct {
	Strategy    domain.ContentStrategy `json:"strategy"`
	MonthlyPlan []domain.PostPlan      `json:"monthlyPlan"`
}

// StrategyGenerator turns one UserInput into a validated AnalysisResult.
// It holds no session state.
type StrategyGenerator struct {
	invoker   ModelInvoker
	builder   *prompt.PromptBuilder
	validator PayloadValidator
	cache     ResultCache
	metrics   metrics.Recorder
	logger    *zap.Logger
}

type StrategyGeneratorOption func(*StrategyGenerator)

func WithResultCache(cache ResultCache) StrategyGeneratorOption {
	return func(g *StrategyGenerator) { g.cache = cache }
}

func WithMetrics(recorder metrics.Recorder) StrategyGeneratorOption {
	return func(g *StrategyGenerator) {
		if recorder != nil {
			g.metrics = recorder
		}
	}
}

// NewStrategyGenerator builds a generator. A nil validator falls back to the
// analysis reply schema.
func NewStrategyGenerator(invoker ModelInvoker, builder *prompt.PromptBuilder, validator PayloadValidator, logger *zap.Logger, opts ...StrategyGeneratorOption) *StrategyGenerator {
	if builder == nil {
		builder = prompt.NewPromptBuilder()
	}
	if validator == nil {
		validator = mustStrategyValidator()
	}
	g := &StrategyGenerator{
		invoker:   invoker,
		builder:   builder,
		validator: validator,
		metrics:   metrics.Nop{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate performs one model round trip. Any failure is returned as a
// GenerationError, except invalid input which is a ValidationError.
func (g *StrategyGenerator) Generate(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, *GenerateMetadata, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	started := time.Now()

	if cached := g.lookupCache(ctx, in); cached != nil {
		g.metrics.RecordGeneration("cache", time.Since(started))
		return cached, &GenerateMetadata{Provider: "cache", CacheHit: true}, nil
	}

	text, usedFallback := g.builder.BuildStrategyPrompt(prompt.NewStrategyPromptData(in))
	if usedFallback {
		g.logger.Warn("Strategy prompt rendered with fallback")
	}

	var payload strategyPayload
	meta, err := g.invoker.GenerateJSON(ctx, text, PresetPlanning, &payload, &GenerateOptions{
		ResponseSchema: StrategyResponseSchema(),
		JSONSchema:     StrategyJSONSchema(),
		Validator:      g.validator,
	})
	if err != nil {
		g.metrics.RecordGeneration(failureOutcome(err), time.Since(started))
		g.logger.Error("Strategy generation failed",
			zap.String("account", in.AccountName),
			zap.Error(err),
		)
		return nil, nil, err
	}

	result := domain.NewAnalysisResult(payload.Strategy, payload.MonthlyPlan)
	g.metrics.RecordGeneration("success", time.Since(started))
	g.logger.Info("Strategy generated",
		zap.String("id", result.ID),
		zap.String("account", in.AccountName),
		zap.String("provider", meta.Provider),
		zap.Int("posts", len(result.MonthlyPlan)),
		zap.Int64("latency_ms", meta.LatencyMS),
	)

	g.storeCache(ctx, in, result)
	return result, meta, nil
}

func (g *StrategyGenerator) lookupCache(ctx context.Context, in domain.UserInput) *domain.AnalysisResult {
	if g.cache == nil {
		return nil
	}
	cached, found, err := g.cache.Lookup(ctx, in)
	switch {
	case err != nil:
		g.metrics.RecordCacheLookup("error")
		g.logger.Warn("Analysis cache lookup failed", zap.Error(err))
		return nil
	case !found:
		g.metrics.RecordCacheLookup("miss")
		return nil
	default:
		g.metrics.RecordCacheLookup("hit")
		return cached
	}
}

func (g *StrategyGenerator) storeCache(ctx context.Context, in domain.UserInput, result *domain.AnalysisResult) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Store(ctx, in, result); err != nil {
		g.logger.Warn("Analysis cache store failed", zap.Error(err))
	}
}

func failureOutcome(err error) string {
	var genErr *errors.GenerationError
	if stderrors.As(err, &genErr) {
		return string(genErr.Stage)
	}
	return "unknown"
}
