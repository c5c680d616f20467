package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"go.uber.org/zap"
)

const analysisKeyPrefix = "instaplanner:analysis:"

// AnalysisCache stores generated results keyed by the submitted fields.
type AnalysisCache struct {
	store  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

func NewAnalysisCache(store *CacheService, ttl time.Duration, logger *zap.Logger) *AnalysisCache {
	return &AnalysisCache{store: store, ttl: ttl, logger: logger}
}

// AnalysisKey hashes the fields exactly as submitted; any difference in a
// field, including case, is a different key.
func AnalysisKey(in domain.UserInput) string {
	fields := []string{
		in.AccountName,
		in.Niche,
		in.CurrentFollowers,
		in.Goal,
		in.RecentTopics,
		in.BenchmarkAccount,
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return analysisKeyPrefix + hex.EncodeToString(sum[:])
}

func (a *AnalysisCache) Lookup(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, bool, error) {
	var result domain.AnalysisResult
	found, err := a.store.Get(ctx, AnalysisKey(in), &result)
	if err != nil || !found {
		return nil, false, err
	}
	a.logger.Debug("Analysis cache hit", zap.String("account", in.AccountName))
	return &result, true, nil
}

func (a *AnalysisCache) Store(ctx context.Context, in domain.UserInput, result *domain.AnalysisResult) error {
	if result == nil {
		return nil
	}
	return a.store.Set(ctx, AnalysisKey(in), result, a.ttl)
}

func (a *AnalysisCache) Invalidate(ctx context.Context, in domain.UserInput) error {
	return a.store.Del(ctx, AnalysisKey(in))
}
