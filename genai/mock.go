package genai

import (
	"context"
	"strings"
)

// MockClient is a placeholder backend for local runs without network
// access. It echoes the prompt inside canned markdown.
type MockClient struct{}

func (MockClient) Generate(_ context.Context, prompt string) Result {
	var sb strings.Builder
	sb.WriteString("# Sample Response\n\n")
	sb.WriteString("This is locally generated placeholder output.\n\n")
	sb.WriteString("## Prompt\n\n")
	sb.WriteString(prompt)
	sb.WriteString("\n")
	return Success(sb.String())
}
