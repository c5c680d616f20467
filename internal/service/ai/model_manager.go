package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/config"
	"github.com/kapu/instaplanner-ai-go/internal/constants"
	"github.com/kapu/instaplanner-ai-go/internal/util"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"go.uber.org/zap"
)

var (
	statusCodePattern = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodePattern = regexp.MustCompile(`^(\d{3})\s`)
)

// ModelInvoker produces a decoded JSON value from a prompt.
type ModelInvoker interface {
	GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error)
}

// ModelManager issues exactly one provider call per GenerateJSON and turns
// every failure into a GenerationError.
type ModelManager struct {
	provider       JSONProvider
	timeout        time.Duration
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

func NewModelManager(provider JSONProvider, timeout time.Duration, logger *zap.Logger) *ModelManager {
	if timeout <= 0 {
		timeout = constants.AIConfig.RequestTimeout
	}
	mm := &ModelManager{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)
	return mm
}

// NewProvider builds the provider selected in configuration.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (JSONProvider, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

func (mm *ModelManager) ProviderName() string {
	if mm.provider == nil {
		return "none"
	}
	return mm.provider.Name()
}

func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error) {
	providerName := mm.ProviderName()

	if mm.provider == nil {
		return nil, errors.NewGenerationError("model provider is not configured", errors.StageRequest, providerName, nil)
	}

	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		nextRetry := "알 수 없음"
		if status.NextRetryTime != nil {
			nextRetry = util.FormatKST(*status.NextRetryTime, "15:04:05")
		}
		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)
		return nil, errors.NewGenerationError("AI service unavailable until "+nextRetry, errors.StageCircuitOpen, providerName, nil)
	}

	var options GenerateOptions
	if opts != nil {
		options = *opts
	}
	options.JSONMode = true

	callCtx, cancel := context.WithTimeout(ctx, mm.timeout)
	defer cancel()

	started := time.Now()
	result, err := mm.provider.Generate(callCtx, prompt, preset, &options)
	latency := time.Since(started)
	if err != nil {
		mm.recordFailure(err)
		return nil, errors.NewGenerationError(providerName+" request failed", errors.StageRequest, providerName, err)
	}
	mm.circuitBreaker.RecordSuccess()

	metadata := &GenerateMetadata{
		Provider:  providerName,
		Model:     result.Model,
		LatencyMS: latency.Milliseconds(),
	}

	if err := mm.decodeJSON(result.Text, metadata, dest, options.Validator); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (mm *ModelManager) decodeJSON(text string, metadata *GenerateMetadata, dest any, validator PayloadValidator) error {
	cleaned := util.StripCodeFence(text)
	if cleaned == "" {
		return errors.NewGenerationError(metadata.Provider+" API returned empty response", errors.StageEmpty, metadata.Provider, nil)
	}

	preview := util.TruncateString(cleaned, constants.AIConfig.PreviewLength)

	if validator != nil {
		if err := validator.Validate([]byte(cleaned)); err != nil {
			mm.logger.Error("Response failed schema validation",
				zap.String("provider", metadata.Provider),
				zap.Error(err),
				zap.String("response_preview", preview),
			)
			return errors.NewGenerationError("response from "+metadata.Provider+" does not match schema", errors.StageSchema, metadata.Provider, err)
		}
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", preview),
		)
		return errors.NewGenerationError("invalid JSON from "+metadata.Provider, errors.StageDecode, metadata.Provider, err)
	}

	return nil
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthy := mm.provider != nil && mm.provider.Ping(ctx)
	mm.logger.Info("Health Check: Result",
		zap.String("provider", mm.ProviderName()),
		zap.Bool("healthy", healthy),
	)
	return healthy
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	if err == context.DeadlineExceeded || strings.Contains(err.Error(), context.DeadlineExceeded.Error()) {
		return true
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}
	if isRateLimitError(err) {
		return true
	}
	if statusCodePattern.MatchString(msg) {
		return true
	}

	return codeInRange(msg, 500, 599)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	return codeInRange(msg, 429, 429)
}

func codeInRange(msg string, lo, hi int) bool {
	for _, pattern := range []*regexp.Regexp{geminiCodePattern, openaiCodePattern} {
		if matches := pattern.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return code >= lo && code <= hi
			}
		}
	}
	return false
}
