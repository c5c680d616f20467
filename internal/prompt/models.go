package prompt

import (
	"github.com/kapu/instaplanner-ai-go/internal/constants"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/util"
)

type StrategyPromptData struct {
	AccountName      string
	Niche            string
	CurrentFollowers string
	Goal             string
	RecentTopics     string
	BenchmarkAccount string
	HasBenchmark     bool
	PostCount        int
	PostsPerWeek     int
	KeywordCount     int
	PillarsMin       int
	PillarsMax       int
	OutputLocale     string
}

// NewStrategyPromptData copies the user input into template data with the default plan shape.
func NewStrategyPromptData(in domain.UserInput) StrategyPromptData {
	benchmark := util.SanitizeField(in.BenchmarkAccount)
	return StrategyPromptData{
		AccountName:      util.SanitizeField(in.AccountName),
		Niche:            util.SanitizeField(in.Niche),
		CurrentFollowers: util.SanitizeField(in.CurrentFollowers),
		Goal:             util.SanitizeField(in.Goal),
		RecentTopics:     util.SanitizeField(in.RecentTopics),
		BenchmarkAccount: benchmark,
		HasBenchmark:     benchmark != "",
		PostCount:        constants.PlanDefaults.PostCount,
		PostsPerWeek:     constants.PlanDefaults.PostsPerWeek,
		KeywordCount:     constants.PlanDefaults.KeywordCount,
		PillarsMin:       constants.PlanDefaults.PillarsMin,
		PillarsMax:       constants.PlanDefaults.PillarsMax,
		OutputLocale:     constants.PlanDefaults.OutputLocale,
	}
}
