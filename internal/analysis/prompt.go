package analysis

import (
	"fmt"
	"strings"

	"github.com/aezell/crev/internal/model"
)

// BuildPrompt renders the review instructions a model-backed Analyzer would
// send for req. The heuristic analyzer does not use it.
func BuildPrompt(req model.ReviewRequest) string {
	lang := req.Language
	if lang == "" {
		lang = "code"
	}

	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = string(c)
	}
	severities := make([]string, len(model.Severities))
	for i, s := range model.Severities {
		severities[len(severities)-1-i] = string(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert code reviewer. Review the following %s for readability, modularity, potential bugs, performance issues, security vulnerabilities, and adherence to best practices.\n\n", lang)
	fmt.Fprintf(&b, "Filename: %s\nCode:\n```\n%s\n```\n\n", req.Filename, req.Content)
	b.WriteString("Provide a comprehensive review in the following JSON format:\n")
	b.WriteString("{\n")
	b.WriteString(`  "overall": <0-100>,` + "\n")
	b.WriteString(`  "readability": <0-100>,` + "\n")
	b.WriteString(`  "modularity": <0-100>,` + "\n")
	b.WriteString(`  "best_practices": <0-100>,` + "\n")
	b.WriteString(`  "summary": "<brief overall assessment>",` + "\n")
	b.WriteString(`  "suggestions": [` + "\n    {\n")
	fmt.Fprintf(&b, "      \"category\": \"<%s>\",\n", strings.Join(categories, "|"))
	fmt.Fprintf(&b, "      \"severity\": \"<%s>\",\n", strings.Join(severities, "|"))
	b.WriteString(`      "line_number": <optional line number>,` + "\n")
	b.WriteString(`      "title": "<brief issue title>",` + "\n")
	b.WriteString(`      "description": "<detailed explanation>",` + "\n")
	b.WriteString(`      "code_snippet": "<optional relevant code>",` + "\n")
	b.WriteString(`      "suggested_fix": "<optional recommended solution>"` + "\n")
	b.WriteString("    }\n  ]\n}\n\n")
	b.WriteString("Focus on providing actionable, specific feedback. Identify at least 3-5 suggestions for improvement.")
	return b.String()
}
