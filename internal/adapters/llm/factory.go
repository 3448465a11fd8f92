package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/okian/careertrack/pkg/logger"
)

// Provider names accepted by NewProvider.
const (
	ProviderNone   = "none"
	ProviderMock   = "mock"
	ProviderOpenAI = "openai"
)

// Config holds provider configuration.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	// Timeout bounds one generation including retries.
	Timeout time.Duration
	Retry   RetryConfig

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// NewProvider builds the configured provider wrapped as
// caller -> retry -> instrumentation -> base. It returns ErrDisabled for
// the "none" provider.
func NewProvider(cfg Config, log logger.Logger) (Provider, error) {
	var base Provider
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, ErrDisabled
	case ProviderMock:
		m := NewMockProvider()
		m.Fallback = SamplePlanResponse
		base = m
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
		}
		base = p
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	if log == nil {
		log = logger.Get()
	}
	return WithRetry(WithInstrumentation(base, log), cfg.Retry), nil
}
