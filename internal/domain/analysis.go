package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the unit of session state: one strategy and its posts in generation order.
type AnalysisResult struct {
	ID          string          `json:"id,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	Strategy    ContentStrategy `json:"strategy"`
	MonthlyPlan []PostPlan      `json:"monthlyPlan"`
}

func NewAnalysisResult(strategy ContentStrategy, plan []PostPlan) *AnalysisResult {
	return &AnalysisResult{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		Strategy:    strategy,
		MonthlyPlan: plan,
	}
}

func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	cp := &AnalysisResult{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Strategy:  r.Strategy.Clone(),
	}
	if r.MonthlyPlan != nil {
		cp.MonthlyPlan = make([]PostPlan, len(r.MonthlyPlan))
		for i, post := range r.MonthlyPlan {
			cp.MonthlyPlan[i] = post.Clone()
		}
	}
	return cp
}

// ResetStatuses forces every post back to planned, whatever the payload claimed.
func (r *AnalysisResult) ResetStatuses() {
	if r == nil {
		return
	}
	for i := range r.MonthlyPlan {
		r.MonthlyPlan[i].Status = PostStatusPlanned
	}
}

func (r *AnalysisResult) PendingCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, post := range r.MonthlyPlan {
		if post.IsPending() {
			count++
		}
	}
	return count
}
