package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kapu/instaplanner-ai-go/internal/adapter"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
	"go.uber.org/zap"
)

type AnalyzeCommand struct {
	deps *Dependencies
}

func NewAnalyzeCommand(deps *Dependencies) *AnalyzeCommand {
	return &AnalyzeCommand{deps: deps}
}

func (c *AnalyzeCommand) Name() string {
	return "analyze"
}

func (c *AnalyzeCommand) Aliases() []string {
	return []string{"분석"}
}

func (c *AnalyzeCommand) Description() string {
	return "입력 파일로 새 전략을 생성합니다 (예: analyze profile.txt)"
}

func (c *AnalyzeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.deps.println("입력 파일 경로를 지정해주세요.\n예) analyze profile.txt")
		return nil
	}

	readFile := c.deps.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	path := strings.Join(args, " ")
	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	in, err := adapter.ParseUserInput(string(data))
	if err != nil {
		c.deps.println(c.deps.Formatter.FormatError(errors.InvalidInputMessage))
		return err
	}

	result, err := c.deps.Session.SubmitAnalysis(ctx, in)
	if err != nil {
		c.deps.Logger.Debug("Analysis command failed", zap.Error(err))
		c.deps.println(c.deps.Formatter.FormatError(c.deps.Session.State().Error))
		return nil
	}

	c.deps.println(c.deps.Formatter.FormatStrategy(result.Strategy))
	c.deps.println("\n" + c.deps.Formatter.FormatPlan(result.MonthlyPlan))
	return nil
}
