package domain

import (
	"fmt"
	"strings"

	"github.com/kapu/instaplanner-ai-go/pkg/errors"
)

// UserInput holds the free-text profile facts of one submission.
// CurrentFollowers is never parsed as a number ("1,500명" is valid).
type UserInput struct {
	AccountName      string `json:"accountName"`
	Niche            string `json:"niche"`
	CurrentFollowers string `json:"currentFollowers"`
	Goal             string `json:"goal"`
	RecentTopics     string `json:"recentTopics"`
	BenchmarkAccount string `json:"benchmarkAccount,omitempty"`
}

func (in UserInput) HasBenchmark() bool {
	return strings.TrimSpace(in.BenchmarkAccount) != ""
}

// Validate checks required fields. BenchmarkAccount is optional and no field
// has a length limit.
func (in UserInput) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"accountName", in.AccountName},
		{"niche", in.Niche},
		{"currentFollowers", in.CurrentFollowers},
		{"goal", in.Goal},
		{"recentTopics", in.RecentTopics},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.NewValidationError(fmt.Sprintf("%s is required", f.field), f.field, f.value)
		}
	}

	return nil
}
