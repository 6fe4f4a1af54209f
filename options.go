package searchd

import (
	"context"

	"go.uber.org/zap"

	"github.com/caseflow/searchd/internal/domain"
)

// Option configures the embedded client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	openAIKey     string
	openAIBaseURL string
	openAIModel   string
	dimensions    int

	lexicalWeight  float64
	semanticWeight float64
	titleBoost     float64
	recencyBoost   float64
	halfLifeDays   float64
	maxResults     int

	logger *zap.Logger
}

// Embedder vectorizes text. Implement it to plug a custom embedding
// provider into the client.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// WithValkey connects to a Valkey instance.
func WithValkey(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithRedis connects to a Redis instance.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithEmbedder plugs a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithOpenAIEmbedder configures the built-in OpenAI-compatible provider.
// baseURL may be empty for the default endpoint.
func WithOpenAIEmbedder(apiKey, baseURL, model string, dimensions int) Option {
	return func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		c.openAIModel = model
		c.dimensions = dimensions
	}
}

// WithRanking overrides the lexical/semantic blending weights.
func WithRanking(lexicalWeight, semanticWeight float64) Option {
	return func(c *clientConfig) {
		c.lexicalWeight = lexicalWeight
		c.semanticWeight = semanticWeight
	}
}

// WithRecency overrides the recency boost and its half-life in days.
func WithRecency(boost, halfLifeDays float64) Option {
	return func(c *clientConfig) {
		c.recencyBoost = boost
		c.halfLifeDays = halfLifeDays
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// embedderAdapter bridges the public Embedder to the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult(res), nil
}
