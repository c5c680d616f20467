package adapter

import (
	"strings"
	"testing"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStrategy() domain.ContentStrategy {
	return domain.ContentStrategy{
		TargetAudience:         "20대 직장인",
		ToneAndManner:          "친근한 반말",
		ContentPillars:         []string{"루틴", "식단", "동기부여"},
		GrowthKeywords:         []string{"홈트", "오운완"},
		BenchmarkAnalysis:      "일반적인 경쟁 조언",
		ImprovementSuggestions: "릴스를 주 2회 올리세요.",
	}
}

func TestFormatStrategy(t *testing.T) {
	text := NewPlanFormatter().FormatStrategy(sampleStrategy())

	for _, want := range []string{
		"주요 타겟: 20대 직장인",
		"톤앤매너 (화법): 친근한 반말",
		"벤치마킹 & 경쟁력 분석",
		"1. 루틴",
		"3. 동기부여",
		"홈트 · 오운완",
		"AI 전략 제언",
		"릴스를 주 2회 올리세요.",
	} {
		assert.Contains(t, text, want)
	}
}

func TestFormatPlan(t *testing.T) {
	posts := []domain.PostPlan{
		{Day: 1, Title: "루틴 영상", Type: domain.PostTypeReels, Caption: "첫 줄\n둘째 줄", Hashtags: []string{"a", "#b", "c", "d"}, VisualPrompt: "밝은 조명", Status: domain.PostStatusPlanned},
		{Day: 3, Title: "식단", Type: domain.PostTypeCarousel, Status: domain.PostStatusScheduled},
	}

	text := NewPlanFormatter().FormatPlan(posts)

	assert.True(t, strings.HasPrefix(text, "📅 월간 콘텐츠 캘린더 (총 2개)"))
	assert.Contains(t, text, "[1] Day 1 · Reels · 루틴 영상")
	assert.Contains(t, text, "#a #b #c")
	assert.NotContains(t, text, "#d")
	assert.Contains(t, text, "첫 줄 둘째 줄")
	assert.Contains(t, text, "예약 대기열에 추가")
	assert.Contains(t, text, "✅ 예약 완료됨")
	assert.Less(t, strings.Index(text, "루틴 영상"), strings.Index(text, "식단"))
}

func TestFormatPlanEmpty(t *testing.T) {
	assert.Contains(t, NewPlanFormatter().FormatPlan(nil), "총 0개")
}

func TestFormatSchedulerStatus(t *testing.T) {
	f := NewPlanFormatter()

	idle := f.FormatSchedulerStatus(scheduler.Snapshot{Phase: scheduler.PhaseIdle}, 4)
	assert.Contains(t, idle, "4개의 게시물이 예약 대기 중입니다.")

	running := f.FormatSchedulerStatus(scheduler.Snapshot{Phase: scheduler.PhaseRunning, Progress: 50}, 4)
	assert.Contains(t, running, "Meta 서버로 전송 중...")
	assert.Contains(t, running, " 50%")

	done := f.FormatSchedulerStatus(scheduler.Snapshot{Phase: scheduler.PhaseDone, Progress: 100}, 0)
	assert.Contains(t, done, "모든 게시물이 예약되었습니다.")
	assert.Contains(t, done, "예약 전송 완료!")
}

func TestFormatProgressBar(t *testing.T) {
	f := NewPlanFormatter()

	assert.Equal(t, "["+strings.Repeat("░", 30)+"]   0%", f.FormatProgressBar(0))
	assert.Equal(t, "["+strings.Repeat("█", 30)+"] 100%", f.FormatProgressBar(100))
	assert.Equal(t, "["+strings.Repeat("█", 30)+"] 100%", f.FormatProgressBar(140))
	assert.Equal(t, "["+strings.Repeat("█", 15)+strings.Repeat("░", 15)+"]  50%", f.FormatProgressBar(50))
}

func TestFormatError(t *testing.T) {
	f := NewPlanFormatter()
	assert.Empty(t, f.FormatError(" "))
	assert.Equal(t, "⚠️ "+errors.GenerationFailureMessage, f.FormatError(errors.GenerationFailureMessage))
}

func TestParseUserInput(t *testing.T) {
	in, err := ParseUserInput(`
# profile
계정: @brand
Niche: fitness
팔로워 수: 1,500명
goal: grow: fast
topics: workouts, meals
`)
	require.NoError(t, err)

	assert.Equal(t, domain.UserInput{
		AccountName:      "@brand",
		Niche:            "fitness",
		CurrentFollowers: "1,500명",
		Goal:             "grow: fast",
		RecentTopics:     "workouts, meals",
	}, in)
	assert.False(t, in.HasBenchmark())
}

func TestParseUserInputRejectsBadLines(t *testing.T) {
	_, err := ParseUserInput("account @brand")
	assert.True(t, errors.IsValidation(err))

	_, err = ParseUserInput("nickname: x")
	assert.True(t, errors.IsValidation(err))
}
