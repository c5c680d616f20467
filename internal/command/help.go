package command

import (
	"context"
	"fmt"
	"strings"
)

type HelpCommand struct {
	deps     *Dependencies
	registry *Registry
}

func NewHelpCommand(deps *Dependencies, registry *Registry) *HelpCommand {
	return &HelpCommand{deps: deps, registry: registry}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Aliases() []string {
	return []string{"도움말", "?"}
}

func (c *HelpCommand) Description() string {
	return "도움말을 표시합니다"
}

func (c *HelpCommand) Execute(ctx context.Context, args []string) error {
	var sb strings.Builder
	sb.WriteString("사용 가능한 명령어\n")
	for _, cmd := range c.registry.Commands() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", cmd.Name(), cmd.Description()))
	}
	c.deps.println(strings.TrimRight(sb.String(), "\n"))
	return nil
}
