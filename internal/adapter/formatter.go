package adapter

import (
	"fmt"
	"math"
	"strings"

	"github.com/kapu/instaplanner-ai-go/internal/constants"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/internal/util"
)

// PlanFormatter renders session state as Korean plain text.
type PlanFormatter struct {
	barWidth int
}

func NewPlanFormatter() *PlanFormatter {
	return &PlanFormatter{barWidth: constants.FormatterLimits.ProgressBarWidth}
}

// FormatStrategy renders the strategy dashboard.
func (f *PlanFormatter) FormatStrategy(strategy domain.ContentStrategy) string {
	if rendered, err := executeFormatterTemplate("strategy", strategy); err == nil {
		return rendered
	}

	var sb strings.Builder
	sb.WriteString("🎯 타겟 오디언스 & 톤앤매너\n")
	sb.WriteString(fmt.Sprintf("- 주요 타겟: %s\n", strategy.TargetAudience))
	sb.WriteString(fmt.Sprintf("- 톤앤매너 (화법): %s\n\n", strategy.ToneAndManner))
	sb.WriteString("🔍 벤치마킹 & 경쟁력 분석\n")
	sb.WriteString(strategy.BenchmarkAnalysis + "\n\n")
	sb.WriteString("🧱 핵심 콘텐츠 필라 (Pillars)\n")
	for i, p := range strategy.ContentPillars {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	sb.WriteString("\n📈 성장 견인 키워드\n")
	sb.WriteString(strings.Join(strategy.GrowthKeywords, " · ") + "\n\n")
	sb.WriteString("💡 AI 전략 제언\n")
	sb.WriteString(strategy.ImprovementSuggestions)
	return strings.TrimRight(sb.String(), "\n")
}

// FormatPlan renders the monthly calendar in generation order.
func (f *PlanFormatter) FormatPlan(posts []domain.PostPlan) string {
	if len(posts) == 0 {
		return "📅 월간 콘텐츠 캘린더 (총 0개)\n생성된 게시물이 없습니다."
	}

	data := struct{ Posts []domain.PostPlan }{Posts: posts}
	if rendered, err := executeFormatterTemplate("plan", data); err == nil {
		return rendered
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 월간 콘텐츠 캘린더 (총 %d개)\n", len(posts)))
	for i, p := range posts {
		sb.WriteString(fmt.Sprintf("\n[%d] Day %d · %s · %s\n", i+1, p.Day, p.Type, p.Title))
		sb.WriteString(fmt.Sprintf("   %s\n", util.FormatHashtags(p.Hashtags, constants.PlanDefaults.HashtagsShown)))
		sb.WriteString(fmt.Sprintf("   상태: %s %s\n", statusMark(p.Status), p.Status.Label()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatPendingSummary is the scheduler headline for the given pending count.
func (f *PlanFormatter) FormatPendingSummary(pending int) string {
	if pending > 0 {
		return fmt.Sprintf("%d개의 게시물이 예약 대기 중입니다.", pending)
	}
	return "모든 게시물이 예약되었습니다."
}

// FormatSchedulerStatus renders the scheduler panel for a snapshot.
func (f *PlanFormatter) FormatSchedulerStatus(snap scheduler.Snapshot, pending int) string {
	var sb strings.Builder
	sb.WriteString("📡 메타 비즈니스 예약 센터\n")
	sb.WriteString(f.FormatPendingSummary(pending))

	switch snap.Phase {
	case scheduler.PhaseRunning:
		sb.WriteString("\nMeta 서버로 전송 중... ")
		sb.WriteString(f.FormatProgressBar(snap.Progress))
	case scheduler.PhaseDone:
		sb.WriteString("\n✅ 예약 전송 완료!")
	}
	return sb.String()
}

// FormatProgressBar draws a fixed-width bar followed by the rounded percentage.
func (f *PlanFormatter) FormatProgressBar(progress float64) string {
	progress = math.Max(0, math.Min(progress, 100))
	filled := int(math.Round(progress / 100 * float64(f.barWidth)))
	return fmt.Sprintf("[%s%s] %3d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", f.barWidth-filled),
		int(math.Round(progress)),
	)
}

// FormatError renders a user-visible failure notice.
func (f *PlanFormatter) FormatError(message string) string {
	if strings.TrimSpace(message) == "" {
		return ""
	}
	return "⚠️ " + message
}
