package command

import (
	"context"
	"fmt"

	"github.com/kapu/instaplanner-ai-go/internal/util"
)

type StatusCommand struct {
	deps *Dependencies
}

func NewStatusCommand(deps *Dependencies) *StatusCommand {
	return &StatusCommand{deps: deps}
}

func (c *StatusCommand) Name() string {
	return "status"
}

func (c *StatusCommand) Aliases() []string {
	return []string{"상태"}
}

func (c *StatusCommand) Description() string {
	return "예약 센터 상태를 표시합니다"
}

func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	state := c.deps.Session.State()
	if state.Loading {
		c.deps.println("AI가 분석 중입니다...")
	}
	c.deps.println(c.deps.Formatter.FormatError(state.Error))
	if state.Result != nil {
		c.deps.println(fmt.Sprintf("분석 %s (%s 생성)", state.Result.ID, util.FormatKST(state.Result.CreatedAt, "01/02 15:04")))
	}
	c.deps.println(c.deps.Formatter.FormatSchedulerStatus(state.Batch, state.PendingCount))
	return nil
}

type StrategyCommand struct {
	deps *Dependencies
}

func NewStrategyCommand(deps *Dependencies) *StrategyCommand {
	return &StrategyCommand{deps: deps}
}

func (c *StrategyCommand) Name() string {
	return "strategy"
}

func (c *StrategyCommand) Aliases() []string {
	return []string{"전략"}
}

func (c *StrategyCommand) Description() string {
	return "전략 대시보드를 표시합니다"
}

func (c *StrategyCommand) Execute(ctx context.Context, args []string) error {
	result := c.deps.Session.State().Result
	if result == nil {
		c.deps.println(noAnalysisMessage)
		return nil
	}
	c.deps.println(c.deps.Formatter.FormatStrategy(result.Strategy))
	return nil
}

type PlanCommand struct {
	deps *Dependencies
}

func NewPlanCommand(deps *Dependencies) *PlanCommand {
	return &PlanCommand{deps: deps}
}

func (c *PlanCommand) Name() string {
	return "plan"
}

func (c *PlanCommand) Aliases() []string {
	return []string{"캘린더", "목록"}
}

func (c *PlanCommand) Description() string {
	return "월간 콘텐츠 캘린더를 표시합니다"
}

func (c *PlanCommand) Execute(ctx context.Context, args []string) error {
	result := c.deps.Session.State().Result
	if result == nil {
		c.deps.println(noAnalysisMessage)
		return nil
	}
	c.deps.println(c.deps.Formatter.FormatPlan(result.MonthlyPlan))
	return nil
}

const noAnalysisMessage = "아직 분석 결과가 없습니다. analyze 명령으로 전략을 생성해주세요."
