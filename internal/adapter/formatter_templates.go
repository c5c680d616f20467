package adapter

import (
	"embed"
	"strings"
	"sync"
	"text/template"

	"github.com/kapu/instaplanner-ai-go/internal/constants"
	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/kapu/instaplanner-ai-go/internal/util"
)

//go:embed templates/*.tmpl
var formatterTemplateFS embed.FS

var (
	formatterTemplates *template.Template
	formatterOnce      sync.Once
	formatterErr       error
)

func executeFormatterTemplate(name string, data any) (string, error) {
	formatterOnce.Do(func() {
		funcMap := template.FuncMap{
			"add":  func(a, b int) int { return a + b },
			"join": func(items []string) string { return strings.Join(items, " · ") },
			"hashtags": func(tags []string) string {
				return util.FormatHashtags(tags, constants.PlanDefaults.HashtagsShown)
			},
			"preview": func(s string) string {
				return util.TruncateString(strings.ReplaceAll(s, "\n", " "), constants.FormatterLimits.CaptionPreview)
			},
			"statusMark": statusMark,
		}
		tmpl := template.New("formatter").Funcs(funcMap)
		formatterTemplates, formatterErr = tmpl.ParseFS(formatterTemplateFS, "templates/*.tmpl")
	})

	if formatterErr != nil {
		return "", formatterErr
	}

	var builder strings.Builder
	if err := formatterTemplates.ExecuteTemplate(&builder, name, data); err != nil {
		return "", err
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}

func statusMark(s domain.PostStatus) string {
	switch s {
	case domain.PostStatusScheduled:
		return "✅"
	case domain.PostStatusUploaded:
		return "📤"
	default:
		return "⬜"
	}
}
