package domain

// ContentStrategy is the advisory summary returned alongside the monthly plan.
type ContentStrategy struct {
	TargetAudience         string   `json:"targetAudience"`
	ToneAndManner          string   `json:"toneAndManner"`
	ContentPillars         []string `json:"contentPillars"`
	GrowthKeywords         []string `json:"growthKeywords"`
	BenchmarkAnalysis      string   `json:"benchmarkAnalysis"`
	ImprovementSuggestions string   `json:"improvementSuggestions"`
}

func (s ContentStrategy) Clone() ContentStrategy {
	cp := s
	if s.ContentPillars != nil {
		cp.ContentPillars = append([]string(nil), s.ContentPillars...)
	}
	if s.GrowthKeywords != nil {
		cp.GrowthKeywords = append([]string(nil), s.GrowthKeywords...)
	}
	return cp
}
