package generator

import (
	"context"
	"fmt"
	"strings"
)

// LLMClient abstracts the text-generation capability so providers can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the provider configuration handed to NewLLM.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLM builds the client for settings.Provider.
func NewLLM(ctx context.Context, cfg LLMSettings) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		return NewOpenAILLMFromConfig(&cfg)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(&cfg)
	case "gemini":
		return NewGeminiLLM(ctx, &cfg)
	case "mock":
		return MockLLM{}, nil
	case "":
		return nil, fmt.Errorf("llm provider missing; set llm.provider")
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
