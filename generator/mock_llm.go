package generator

import (
	"context"
	"strings"
)

// MockLLM is an offline stand-in for local runs; it never calls a model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// A refine prompt already carries an article; hand it back unchanged.
	if _, draft, ok := strings.Cut(prompt.User, "according to the goals above:\n\n"); ok {
		return draft, nil
	}

	topic := "Untitled"
	for _, line := range strings.Split(prompt.User, "\n") {
		if t, ok := strings.CutPrefix(line, "Topic: "); ok {
			topic = strings.TrimSpace(t)
			break
		}
	}

	var sb strings.Builder
	sb.WriteString("# " + topic + "\n\n")
	sb.WriteString("## Introduction\n\n")
	sb.WriteString("This placeholder article was produced without calling a model [1].\n\n")
	sb.WriteString("## Background\n\n")
	sb.WriteString("Replace the mock provider with a real one to get generated content [1].\n\n")
	sb.WriteString("## Conclusion\n\n")
	sb.WriteString("References below are illustrative and should be double-checked before professional use.\n\n")
	sb.WriteString("References\n")
	sb.WriteString("[1] Offline generation notes – Local development (approx. 2024).\n")
	return sb.String(), nil
}
