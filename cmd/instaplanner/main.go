package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kapu/instaplanner-ai-go/internal/adapter"
	"github.com/kapu/instaplanner-ai-go/internal/app"
	"github.com/kapu/instaplanner-ai-go/internal/command"
	"github.com/kapu/instaplanner-ai-go/internal/config"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/service/scheduler"
	"github.com/kapu/instaplanner-ai-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	var (
		inputFile   = flag.String("input", "", "file with \"label: value\" profile lines")
		account     = flag.String("account", "", "account name or handle")
		niche       = flag.String("niche", "", "category / niche")
		followers   = flag.String("followers", "", "current follower count (free text)")
		goal        = flag.String("goal", "", "goal for this month")
		topics      = flag.String("topics", "", "recently posted topics")
		benchmark   = flag.String("benchmark", "", "benchmark account (optional)")
		schedule    = flag.Bool("schedule", true, "run the batch schedule after analysis")
		interactive = flag.Bool("interactive", false, "read session commands from stdin")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	in, err := readInput(*inputFile, domain.UserInput{
		AccountName:      *account,
		Niche:            *niche,
		CurrentFollowers: *followers,
		Goal:             *goal,
		RecentTopics:     *topics,
		BenchmarkAccount: *benchmark,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	formatter := adapter.NewPlanFormatter()
	completed := make(chan int, 1)
	listener := scheduler.Listener{
		OnProgress: func(p float64) {
			fmt.Printf("\rMeta 서버로 전송 중... %s", formatter.FormatProgressBar(p))
		},
		OnComplete: func(n int) { completed <- n },
	}

	container, err := app.Build(ctx, cfg, logger, app.WithBatchListener(listener))
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	metricsSrv := startMetricsServer(cfg.Metrics.Addr, container, logger)

	var code int
	if *interactive {
		code = repl(ctx, container, formatter, in, completed)
	} else {
		code = run(ctx, container, formatter, in, *schedule, completed)
	}

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsSrv.Shutdown(shutdownCtx)
		shutdownCancel()
	}
	if code != 0 {
		container.Close()
		_ = logger.Sync()
		os.Exit(code)
	}
}

func run(ctx context.Context, c *app.Container, formatter *adapter.PlanFormatter, in domain.UserInput, schedule bool, completed <-chan int) int {
	fmt.Printf("🔎 %s 계정을 분석하는 중...\n", in.AccountName)

	result, err := c.Session.SubmitAnalysis(ctx, in)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatter.FormatError(c.Session.State().Error))
		c.Logger.Debug("Analysis error detail", zap.Error(err))
		return 1
	}

	fmt.Println()
	fmt.Println(formatter.FormatStrategy(result.Strategy))
	fmt.Println()
	fmt.Println(formatter.FormatPlan(result.MonthlyPlan))
	fmt.Println()

	if !schedule {
		state := c.Session.State()
		fmt.Println(formatter.FormatSchedulerStatus(state.Batch, state.PendingCount))
		return 0
	}

	if !c.Session.StartBatchSchedule(ctx) {
		state := c.Session.State()
		fmt.Println(formatter.FormatSchedulerStatus(state.Batch, state.PendingCount))
		return 0
	}

	select {
	case <-completed:
		fmt.Println()
		state := c.Session.State()
		fmt.Println(formatter.FormatSchedulerStatus(state.Batch, state.PendingCount))
		return 0
	case <-ctx.Done():
		fmt.Println()
		c.Logger.Info("Batch schedule interrupted")
		return 130
	}
}

// repl runs session commands line by line until EOF, "quit" or a signal.
func repl(ctx context.Context, c *app.Container, formatter *adapter.PlanFormatter, in domain.UserInput, completed <-chan int) int {
	registry := command.NewDefaultRegistry(&command.Dependencies{
		Session:   c.Session,
		Formatter: formatter,
		Out:       os.Stdout,
		Logger:    c.Logger,
	})

	if in.AccountName != "" {
		if code := run(ctx, c, formatter, in, false, completed); code != 0 {
			return code
		}
	}

	go func() {
		for range completed {
			fmt.Println("\n✅ 예약 전송 완료!")
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Println("명령어를 입력하세요 (help, quit)")
	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return 0
		case line, ok := <-lines:
			if !ok {
				return 0
			}
			line = strings.TrimSpace(line)
			if line == "quit" || line == "exit" {
				return 0
			}
			if err := registry.Execute(ctx, line); err != nil {
				if errors.Is(err, command.ErrUnknownCommand) {
					fmt.Println("알 수 없는 명령어입니다. help를 입력해보세요.")
					continue
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func readInput(path string, fromFlags domain.UserInput) (domain.UserInput, error) {
	if path == "" {
		return fromFlags, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UserInput{}, err
	}
	return adapter.ParseUserInput(string(data))
}

func startMetricsServer(addr string, c *app.Container, logger *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.MetricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("Metrics server listening", zap.String("addr", addr))
	return srv
}
