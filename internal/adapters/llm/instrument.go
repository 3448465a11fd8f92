package llm

import (
	"context"
	"time"

	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// InstrumentedProvider records latency, token usage and failures of every
// call it forwards.
type InstrumentedProvider struct {
	inner Provider
	log   logger.Logger
}

// WithInstrumentation wraps p with metrics and logging.
func WithInstrumentation(p Provider, log logger.Logger) Provider {
	return &InstrumentedProvider{inner: p, log: log}
}

func (i *InstrumentedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := i.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		kind := errorKind(err)
		metrics.RecordLLMError(kind)
		i.log.Warn(ctx, "llm request failed",
			logger.String("model", i.inner.ModelID()),
			logger.String("kind", kind),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
		return nil, err
	}

	metrics.RecordLLMRequest(float64(elapsed.Milliseconds()), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	i.log.Debug(ctx, "llm request",
		logger.String("model", resp.Model),
		logger.Int("input_tokens", resp.Usage.InputTokens),
		logger.Int("output_tokens", resp.Usage.OutputTokens),
		logger.Duration("elapsed", elapsed))
	return resp, nil
}

func (i *InstrumentedProvider) ModelID() string {
	return i.inner.ModelID()
}
