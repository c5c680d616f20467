package command

import (
	"context"
)

type ResetCommand struct {
	deps *Dependencies
}

func NewResetCommand(deps *Dependencies) *ResetCommand {
	return &ResetCommand{deps: deps}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Aliases() []string {
	return []string{"초기화"}
}

func (c *ResetCommand) Description() string {
	return "세션을 초기화합니다"
}

func (c *ResetCommand) Execute(ctx context.Context, args []string) error {
	c.deps.Session.ResetSession()
	c.deps.println("세션을 초기화했습니다.")
	return nil
}
