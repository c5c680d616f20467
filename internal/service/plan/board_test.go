package plan

import (
	"testing"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(statuses ...domain.PostStatus) *Board {
	posts := make([]domain.PostPlan, len(statuses))
	for i, s := range statuses {
		posts[i] = domain.PostPlan{
			Day:      i + 1,
			Title:    "post",
			Type:     domain.PostTypeImage,
			Hashtags: []string{"tag"},
			Status:   s,
		}
	}
	b := NewBoard()
	b.Replace(domain.NewAnalysisResult(domain.ContentStrategy{
		TargetAudience: "audience",
		ContentPillars: []string{"a", "b", "c"},
	}, posts))
	return b
}

func TestToggleRoundTrip(t *testing.T) {
	b := boardWith(domain.PostStatusPlanned, domain.PostStatusScheduled, domain.PostStatusPlanned)
	before := b.Statuses()
	strategy, _ := b.Strategy()

	for i := range before {
		status, err := b.ToggleStatus(i)
		require.NoError(t, err)
		assert.NotEqual(t, before[i], status)

		after := b.Statuses()
		for j := range before {
			if j != i {
				assert.Equal(t, before[j], after[j], "post %d changed when toggling %d", j, i)
			}
		}

		_, err = b.ToggleStatus(i)
		require.NoError(t, err)
		assert.Equal(t, before, b.Statuses())
	}

	gotStrategy, _ := b.Strategy()
	assert.Equal(t, strategy, gotStrategy)
}

func TestToggleOutOfRangeFailsClosed(t *testing.T) {
	b := boardWith(domain.PostStatusPlanned)

	for _, i := range []int{-1, 1, 99} {
		_, err := b.ToggleStatus(i)
		assert.True(t, errors.IsInvalidIndex(err))
	}
	assert.Equal(t, []domain.PostStatus{domain.PostStatusPlanned}, b.Statuses())

	_, err := NewBoard().ToggleStatus(0)
	assert.True(t, errors.IsInvalidIndex(err))
}

func TestToggleUploadedIsRejected(t *testing.T) {
	b := boardWith(domain.PostStatusUploaded)

	_, err := b.ToggleStatus(0)
	assert.ErrorIs(t, err, errors.ErrPostUploaded)
	assert.Equal(t, []domain.PostStatus{domain.PostStatusUploaded}, b.Statuses())
}

func TestMarkAllReadyAsScheduledIsIdempotent(t *testing.T) {
	b := boardWith(domain.PostStatusPlanned, domain.PostStatusScheduled, domain.PostStatusUploaded, domain.PostStatusPlanned)

	assert.Equal(t, 2, b.MarkAllReadyAsScheduled())
	once := b.Statuses()
	assert.Equal(t, []domain.PostStatus{
		domain.PostStatusScheduled, domain.PostStatusScheduled, domain.PostStatusUploaded, domain.PostStatusScheduled,
	}, once)

	assert.Zero(t, b.MarkAllReadyAsScheduled())
	assert.Equal(t, once, b.Statuses())
	assert.Zero(t, b.PendingCount())
}

func TestEmptyBoard(t *testing.T) {
	b := NewBoard()

	assert.False(t, b.HasResult())
	assert.Zero(t, b.PendingCount())
	assert.Zero(t, b.MarkAllReadyAsScheduled())
	assert.Equal(t, []domain.PostStatus{}, b.Statuses())
	assert.Nil(t, b.Posts())
	_, ok := b.Strategy()
	assert.False(t, ok)
}

func TestBoardReturnsCopies(t *testing.T) {
	b := boardWith(domain.PostStatusPlanned)

	posts := b.Posts()
	posts[0].Status = domain.PostStatusUploaded
	posts[0].Hashtags[0] = "changed"

	got := b.Posts()
	assert.Equal(t, domain.PostStatusPlanned, got[0].Status)
	assert.Equal(t, "tag", got[0].Hashtags[0])
}

func TestReplaceCopiesInput(t *testing.T) {
	result := domain.NewAnalysisResult(domain.ContentStrategy{}, []domain.PostPlan{{Status: domain.PostStatusPlanned}})
	b := NewBoard()
	b.Replace(result)

	result.MonthlyPlan[0].Status = domain.PostStatusScheduled
	assert.Equal(t, 1, b.PendingCount())

	b.Clear()
	assert.False(t, b.HasResult())
}
