// Package ai is the client layer for the generative grocery planner. A
// provider turns a prompt into text; the Planner turns that text into a
// structured document for rendering.
package ai

import (
	"context"
	"strings"
)

// Request is a single generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       float64
	JSONResponse      bool
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
}

// cleanMarkdownWrapper strips a ```json fenced wrapper that some models put
// around structured output despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
