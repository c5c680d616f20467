package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kapu/instaplanner-ai-go/internal/adapter"
	"github.com/kapu/instaplanner-ai-go/internal/config"
	"github.com/kapu/instaplanner-ai-go/internal/metrics"
	"github.com/kapu/instaplanner-ai-go/internal/prompt"
	"github.com/kapu/instaplanner-ai-go/internal/service/ai"
	"github.com/kapu/instaplanner-ai-go/internal/service/cache"
	"github.com/kapu/instaplanner-ai-go/internal/service/plan"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container bundles the assembled services of one planning session.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Registry  *prometheus.Registry
	Formatter *adapter.PlanFormatter
	Models    *ai.ModelManager
	Generator *ai.StrategyGenerator
	Board     *plan.Board
	Scheduler *scheduler.BatchScheduler
	Session   *session.Controller

	closers []func()
}

type buildOptions struct {
	provider ai.JSONProvider
	listener scheduler.Listener
	clock    scheduler.Clock
}

type Option func(*buildOptions)

// WithProvider skips provider construction from config.
func WithProvider(p ai.JSONProvider) Option {
	return func(o *buildOptions) { o.provider = p }
}

func WithBatchListener(l scheduler.Listener) Option {
	return func(o *buildOptions) { o.listener = l }
}

func WithClock(c scheduler.Clock) Option {
	return func(o *buildOptions) { o.clock = c }
}

// Build assembles all services. The analysis cache is attached only when
// Redis is enabled; a Redis that cannot be reached is logged and skipped.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	options := buildOptions{clock: scheduler.RealClock()}
	for _, opt := range opts {
		opt(&options)
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// AI stack
	provider := options.provider
	if provider == nil {
		provider, err = ai.NewProvider(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create model provider: %w", err)
		}
	}
	modelManager := ai.NewModelManager(provider, cfg.AI.Timeout, logger)

	validator, err := ai.NewStrategyValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}

	genOpts := []ai.StrategyGeneratorOption{ai.WithMetrics(collector)}
	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			logger.Warn("Analysis cache disabled, Redis unavailable", zap.Error(cacheErr))
		} else {
			closers = append(closers, func() {
				_ = cacheSvc.Close()
			})
			genOpts = append(genOpts, ai.WithResultCache(cache.NewAnalysisCache(cacheSvc, cfg.Redis.TTL, logger)))
		}
	}

	generator := ai.NewStrategyGenerator(modelManager, prompt.NewPromptBuilder(), validator, logger, genOpts...)

	// Plan state and batch simulation
	board := plan.NewBoard()
	batch := scheduler.NewBatchScheduler(scheduler.Config{
		TotalDuration: cfg.Batch.TotalDuration,
		StepInterval:  cfg.Batch.StepInterval,
		DoneDisplay:   cfg.Batch.DoneDisplay,
	}, board, logger,
		scheduler.WithClock(options.clock),
		scheduler.WithListener(options.listener),
		scheduler.WithMetrics(collector),
	)

	controller := session.NewController(generator, board, batch, collector, logger)
	closers = append(closers, controller.Close)

	logger.Info("Planner assembled",
		zap.String("provider", modelManager.ProviderName()),
		zap.Bool("analysis_cache", cfg.Redis.Enabled),
		zap.Duration("batch_duration", cfg.Batch.TotalDuration),
	)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Formatter: adapter.NewPlanFormatter(),
		Models:    modelManager,
		Generator: generator,
		Board:     board,
		Scheduler: batch,
		Session:   controller,
		closers:   closers,
	}, nil
}

func (c *Container) MetricsHandler() http.Handler {
	return metrics.Handler(c.Registry)
}

// Close stops the session and releases infrastructure in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
