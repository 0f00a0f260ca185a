package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/examina/internal/journal"
)

// NewProvider creates a Provider from configuration, wrapped with journal
// logging and retry middleware. The retry wrapper lives at this boundary:
// inside the exam core every stage issues exactly one unretried call.
func NewProvider(ctx context.Context, cfg Config, rec journal.Recorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller -> retry -> timeout -> logging -> base.
	// The timeout sits inside the retry loop so each attempt gets its own
	// deadline.
	logged := WithLogging(base, rec)
	bounded := WithTimeout(logged, cfg.Timeout)
	retried := WithRetry(bounded, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv discovers a provider from standard API key env vars.
func NewProviderFromEnv(ctx context.Context, rec journal.Recorder) (Provider, error) {
	cfg, ok := DiscoverConfig()
	if !ok {
		cfg = ConfigFromEnv()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, rec)
}
