package ai

import (
	"fmt"
	"strings"

	"github.com/rasoi-labs/rasoi/internal/common"
)

// NewClient creates a provider client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newGeminiClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported AI provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}
