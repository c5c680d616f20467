// Package plan owns the current analysis result and the post status transitions.
package plan

import (
	"sync"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
)

// Board holds at most one AnalysisResult. Posts change status only through
// ToggleStatus and MarkAllReadyAsScheduled; the collection is replaced wholesale.
type Board struct {
	mu     sync.RWMutex
	result *domain.AnalysisResult
}

func NewBoard() *Board {
	return &Board{}
}

// Replace installs a copy of result, discarding the previous one.
func (b *Board) Replace(result *domain.AnalysisResult) {
	cp := result.Clone()

	b.mu.Lock()
	b.result = cp
	b.mu.Unlock()
}

func (b *Board) Clear() {
	b.mu.Lock()
	b.result = nil
	b.mu.Unlock()
}

func (b *Board) HasResult() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result != nil
}

// Result returns a copy of the current result, or nil.
func (b *Board) Result() *domain.AnalysisResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result.Clone()
}

// ToggleStatus flips post i between planned and scheduled and returns its new status.
// Out-of-range indices and uploaded posts fail without mutation.
func (b *Board) ToggleStatus(i int) (domain.PostStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	length := 0
	if b.result != nil {
		length = len(b.result.MonthlyPlan)
	}
	if i < 0 || i >= length {
		return "", errors.NewInvalidIndexError(i, length)
	}

	post := &b.result.MonthlyPlan[i]
	switch post.Status {
	case domain.PostStatusPlanned:
		post.Status = domain.PostStatusScheduled
	case domain.PostStatusScheduled:
		post.Status = domain.PostStatusPlanned
	case domain.PostStatusUploaded:
		return post.Status, errors.ErrPostUploaded
	default:
		return post.Status, errors.NewValidationError("post has unknown status", "status", string(post.Status))
	}
	return post.Status, nil
}

// MarkAllReadyAsScheduled moves every planned post to scheduled and reports how many moved.
func (b *Board) MarkAllReadyAsScheduled() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.result == nil {
		return 0
	}
	moved := 0
	for i := range b.result.MonthlyPlan {
		if b.result.MonthlyPlan[i].IsPending() {
			b.result.MonthlyPlan[i].Status = domain.PostStatusScheduled
			moved++
		}
	}
	return moved
}

func (b *Board) PendingCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result.PendingCount()
}

// Posts returns a copy of the post sequence in generation order.
func (b *Board) Posts() []domain.PostPlan {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.result == nil {
		return nil
	}
	posts := make([]domain.PostPlan, len(b.result.MonthlyPlan))
	for i, p := range b.result.MonthlyPlan {
		posts[i] = p.Clone()
	}
	return posts
}

func (b *Board) Strategy() (domain.ContentStrategy, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.result == nil {
		return domain.ContentStrategy{}, false
	}
	return b.result.Strategy.Clone(), true
}

func (b *Board) Statuses() []domain.PostStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.result == nil {
		return []domain.PostStatus{}
	}
	statuses := make([]domain.PostStatus, len(b.result.MonthlyPlan))
	for i, p := range b.result.MonthlyPlan {
		statuses[i] = p.Status
	}
	return statuses
}
