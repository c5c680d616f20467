package command

import (
	"context"
)

type ScheduleCommand struct {
	deps *Dependencies
}

func NewScheduleCommand(deps *Dependencies) *ScheduleCommand {
	return &ScheduleCommand{deps: deps}
}

func (c *ScheduleCommand) Name() string {
	return "schedule"
}

func (c *ScheduleCommand) Aliases() []string {
	return []string{"예약", "일괄예약"}
}

func (c *ScheduleCommand) Description() string {
	return "대기 중인 게시물을 일괄 예약합니다"
}

func (c *ScheduleCommand) Execute(ctx context.Context, args []string) error {
	if c.deps.Session.StartBatchSchedule(ctx) {
		c.deps.println("일괄 예약 업로드를 시작합니다.")
		return nil
	}

	state := c.deps.Session.State()
	c.deps.println(c.deps.Formatter.FormatSchedulerStatus(state.Batch, state.PendingCount))
	return nil
}
