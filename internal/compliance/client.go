package compliance

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider presets for known model providers
var providerDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"gemini": {BaseURL: "", Model: "gemini-3-flash-preview"},
	"openai": {BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
}

// GenerateRequest is everything a backend needs for one round trip.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Parts             []Part
}

// Generator performs one schema-constrained generation and returns the raw
// response text.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Client submits content to the model and returns validated results.
type Client struct {
	provider   string
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	generator  Generator
}

// Option allows configuring the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithModel sets a custom model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithGenerator replaces the provider backend.
func WithGenerator(g Generator) Option {
	return func(c *Client) {
		c.generator = g
	}
}

// NewClient creates a compliance client.
// provider can be "gemini", "openai", or empty (defaults to gemini).
func NewClient(provider, apiKey string, opts ...Option) (*Client, error) {
	if provider == "" {
		provider = "gemini"
	}

	defaults, known := providerDefaults[provider]
	if !known {
		return nil, fmt.Errorf("%w %q (want gemini or openai)", ErrUnknownProvider, provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, provider)
	}

	client := &Client{
		provider: provider,
		apiKey:   apiKey,
		model:    defaults.Model,
		baseURL:  defaults.BaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.generator == nil {
		switch provider {
		case "openai":
			client.generator = newOpenAIGenerator(client.apiKey, client.baseURL, client.httpClient)
		default:
			client.generator = newGeminiGenerator(client.apiKey, client.baseURL, client.httpClient)
		}
	}

	return client, nil
}

// Provider returns the provider name.
func (c *Client) Provider() string { return c.provider }

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Analyze runs a full multimodal analysis of the given inputs.
func (c *Client) Analyze(ctx context.Context, in AnalyzeInput) (*Result, error) {
	if in.Empty() {
		return nil, ErrNoInput
	}
	return c.generate(ctx, "analyze", BuildParts(in))
}

// TestCaption runs a caption-only analysis.
func (c *Client) TestCaption(ctx context.Context, caption string) (*Result, error) {
	if strings.TrimSpace(caption) == "" {
		return nil, ErrEmptyCaption
	}
	return c.generate(ctx, "caption", CaptionParts(caption))
}

func (c *Client) generate(ctx context.Context, kind string, parts []Part) (*Result, error) {
	requestID := uuid.NewString()
	start := time.Now()

	log.Printf("request_id=%s kind=%s provider=%s model=%s parts=%d",
		requestID, kind, c.provider, c.model, len(parts))

	text, err := c.generator.Generate(ctx, GenerateRequest{
		Model:             c.model,
		SystemInstruction: SystemPrompt,
		Parts:             parts,
	})
	if err != nil {
		log.Printf("request_id=%s status=error duration=%s err=%q", requestID, time.Since(start), err)
		return nil, fmt.Errorf("%s request failed: %w", kind, err)
	}

	result, err := ParseResult(text)
	if err != nil {
		log.Printf("request_id=%s status=bad_response duration=%s bytes=%d err=%q",
			requestID, time.Since(start), len(text), err)
		return nil, err
	}

	log.Printf("request_id=%s status=ok duration=%s decision=%q overall=%g flagged=%d",
		requestID, time.Since(start), result.Decision, result.OverallRiskScore, len(result.FlaggedSegments))
	return result, nil
}
