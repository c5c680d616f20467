package command

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/kapu/instaplanner-ai-go/pkg/errors"
)

type ToggleCommand struct {
	deps *Dependencies
}

func NewToggleCommand(deps *Dependencies) *ToggleCommand {
	return &ToggleCommand{deps: deps}
}

func (c *ToggleCommand) Name() string {
	return "toggle"
}

func (c *ToggleCommand) Aliases() []string {
	return []string{"토글"}
}

func (c *ToggleCommand) Description() string {
	return "게시물의 예약 상태를 전환합니다 (예: toggle 3)"
}

// Execute takes the 1-based post number shown in the calendar.
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		c.deps.println("게시물 번호를 지정해주세요.\n예) toggle 3")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		c.deps.println(fmt.Sprintf("'%s'은(는) 올바른 번호가 아닙니다.", args[0]))
		return nil
	}

	err = c.deps.Session.ToggleStatus(n - 1)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrNoAnalysis):
		c.deps.println(noAnalysisMessage)
		return nil
	case stderrors.Is(err, errors.ErrPostUploaded):
		c.deps.println("이미 업로드된 게시물은 변경할 수 없습니다.")
		return nil
	case errors.IsInvalidIndex(err):
		c.deps.println(fmt.Sprintf("%d번 게시물이 없습니다.", n))
		return nil
	default:
		return err
	}

	result := c.deps.Session.State().Result
	if result == nil || n > len(result.MonthlyPlan) {
		return nil
	}
	post := result.MonthlyPlan[n-1]
	c.deps.println(fmt.Sprintf("[%d] %s: %s", n, post.Title, post.Status))
	return nil
}
