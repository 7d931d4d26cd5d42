package compliance

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// geminiGenerator talks to the Gemini API through the Gen AI SDK. The SDK
// client is built per request, so the key is never cached between calls.
type geminiGenerator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newGeminiGenerator(apiKey, baseURL string, httpClient *http.Client) *geminiGenerator {
	return &geminiGenerator{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (g *geminiGenerator) clientConfig() *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:     g.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	return cc
}

func (g *geminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := genai.NewClient(ctx, g.clientConfig())
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Media != nil {
			parts = append(parts, genai.NewPartFromBytes(p.Media.Data, p.Media.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  responseMIMEType,
		ResponseSchema:    AnalysisSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	return resp.Text(), nil
}

// mapGeminiError maps an HTTP 429 from the API onto ErrQuotaExceeded,
// whatever status text the body carries.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErrPtr.Message)
	}
	return err
}
