package adapter

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/util"
	"github.com/kapu/instaplanner-ai-go/pkg/errors"
)

// inputAliases maps accepted labels (lower-cased) to UserInput fields.
var inputAliases = map[string]string{
	"account":          "accountName",
	"accountname":      "accountName",
	"계정":               "accountName",
	"계정 이름":            "accountName",
	"niche":            "niche",
	"카테고리":             "niche",
	"니치":               "niche",
	"followers":        "currentFollowers",
	"currentfollowers": "currentFollowers",
	"팔로워":              "currentFollowers",
	"팔로워 수":            "currentFollowers",
	"goal":             "goal",
	"목표":               "goal",
	"topics":           "recentTopics",
	"recenttopics":     "recentTopics",
	"최근 주제":            "recentTopics",
	"benchmark":        "benchmarkAccount",
	"benchmarkaccount": "benchmarkAccount",
	"벤치마킹":             "benchmarkAccount",
}

// ParseUserInput reads "label: value" lines into a UserInput.
// Blank lines and lines starting with '#' are skipped; a later label overrides an earlier one.
func ParseUserInput(text string) (domain.UserInput, error) {
	var in domain.UserInput

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		label, value, ok := strings.Cut(line, ":")
		if !ok {
			return in, errors.NewValidationError(fmt.Sprintf("line %d: expected \"label: value\"", lineNo), "line", line)
		}

		field, known := inputAliases[util.Normalize(label)]
		if !known {
			return in, errors.NewValidationError(fmt.Sprintf("line %d: unknown label %q", lineNo, strings.TrimSpace(label)), "label", label)
		}
		setInputField(&in, field, util.SanitizeField(value))
	}
	if err := scanner.Err(); err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}

	return in, nil
}

func setInputField(in *domain.UserInput, field, value string) {
	switch field {
	case "accountName":
		in.AccountName = value
	case "niche":
		in.Niche = value
	case "currentFollowers":
		in.CurrentFollowers = value
	case "goal":
		in.Goal = value
	case "recentTopics":
		in.RecentTopics = value
	case "benchmarkAccount":
		in.BenchmarkAccount = value
	}
}
