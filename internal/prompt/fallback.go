package prompt

import (
	"fmt"
	"strings"
)

// FallbackStrategyPrompt builds the same instruction as the embedded template without text/template.
func FallbackStrategyPrompt(data StrategyPromptData) string {
	benchmark := "Not provided"
	benchmarkTask := fmt.Sprintf(`2. No benchmark account was provided. Give general competitive advice for the "%s" niche instead. Put this in "benchmarkAnalysis".`, data.Niche)
	if data.HasBenchmark {
		benchmark = data.BenchmarkAccount
		benchmarkTask = fmt.Sprintf(`2. Analyze why the benchmark account %s is successful (hooks, visual style, consistency) and explain how the user can emulate them. Put this in "benchmarkAnalysis".`, data.BenchmarkAccount)
	}

	var sb strings.Builder
	sb.WriteString("You are an expert Social Media Manager and Instagram Strategist.\n\n")
	sb.WriteString("Analyze the following Instagram profile context:\n")
	sb.WriteString(fmt.Sprintf("- Account Name: %s\n", data.AccountName))
	sb.WriteString(fmt.Sprintf("- Niche/Category: %s\n", data.Niche))
	sb.WriteString(fmt.Sprintf("- Current Followers: %s\n", data.CurrentFollowers))
	sb.WriteString(fmt.Sprintf("- Primary Goal: %s\n", data.Goal))
	sb.WriteString(fmt.Sprintf("- Recent Post Topics: %s\n", data.RecentTopics))
	sb.WriteString(fmt.Sprintf("- Benchmark Account (Role Model/Competitor): %s\n\n", benchmark))
	sb.WriteString("Task:\n")
	sb.WriteString("1. Analyze the direction and suggest a growth strategy.\n")
	sb.WriteString(benchmarkTask + "\n")
	sb.WriteString(fmt.Sprintf("3. Identify top %d keywords for growth.\n", data.KeywordCount))
	sb.WriteString(fmt.Sprintf("4. Define %d-%d content pillars.\n", data.PillarsMin, data.PillarsMax))
	sb.WriteString(fmt.Sprintf(`5. Create a specific, actionable %d-post schedule (simulating a monthly plan, e.g., %d posts/week) that aligns with this strategy. Every post must have status "planned". Hashtags must not include the leading '#'.`+"\n\n",
		data.PostCount, data.PostsPerWeek))
	sb.WriteString(fmt.Sprintf("The output must be in %s.\n", data.OutputLocale))
	return sb.String()
}
