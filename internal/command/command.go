// Package command implements the interactive session commands of the CLI.
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/kapu/instaplanner-ai-go/internal/adapter"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/session"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Execute(ctx context.Context, args []string) error
}

// Session is the controller surface commands operate on.
type Session interface {
	SubmitAnalysis(ctx context.Context, in domain.UserInput) (*domain.AnalysisResult, error)
	ToggleStatus(i int) error
	StartBatchSchedule(ctx context.Context) bool
	ResetSession()
	State() session.State
}

type Dependencies struct {
	Session   Session
	Formatter *adapter.PlanFormatter
	Out       io.Writer
	Logger    *zap.Logger
	// ReadFile loads analysis input files; defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

func (d *Dependencies) println(text string) {
	if text == "" {
		return
	}
	_, _ = fmt.Fprintln(d.Out, text)
}
