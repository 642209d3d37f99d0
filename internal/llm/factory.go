package llm

import (
	"fmt"
	"os"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// NewProvider builds the configured provider. Returns (nil, nil) when the
// LLM stage is disabled or mocked; callers treat a nil provider as "skip".
func NewProvider(cfg model.LLMConfig, responses cache.Cache) (Provider, error) {
	if !cfg.Enabled || cfg.MockInconsistencies {
		return nil, nil
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm enabled but no API key configured (set OPENAI_API_KEY)")
	}

	return NewOpenAIProvider(cfg, responses)
}
