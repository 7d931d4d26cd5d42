package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcao2/postcheck/internal/media"
)

const safeResponse = `{"decision":"SAFE TO POST","overallRiskScore":10,"captionRiskScore":5,"videoRiskScore":15,"flaggedSegments":[],"reasoning":"ok","requiredFixes":[],"categoryDetected":"apparel"}`

// fakeGenerator records every request and replies with a canned body.
type fakeGenerator struct {
	reply    string
	err      error
	requests []GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func newTestClient(t *testing.T, gen Generator) *Client {
	t.Helper()
	c, err := NewClient("gemini", "test-key", WithGenerator(gen))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  error
		wantProv string
	}{
		{name: "gemini with key", provider: "gemini", apiKey: "k", wantProv: "gemini"},
		{name: "openai with key", provider: "openai", apiKey: "k", wantProv: "openai"},
		{name: "empty provider defaults to gemini", provider: "", apiKey: "k", wantProv: "gemini"},
		{name: "missing key", provider: "gemini", apiKey: "", wantErr: ErrMissingAPIKey},
		{name: "unknown provider", provider: "mystery", apiKey: "k", wantErr: ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.provider, tt.apiKey)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Provider() != tt.wantProv {
				t.Errorf("expected provider %q, got %q", tt.wantProv, client.Provider())
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient("gemini", "k", WithModel("gemini-2.5-pro"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "gemini-2.5-pro" {
		t.Errorf("expected model override, got %q", client.Model())
	}

	client2, _ := NewClient("openai", "k", WithBaseURL("http://custom/v1"), WithModel(""))
	if client2.baseURL != "http://custom/v1" {
		t.Errorf("expected custom baseURL, got %q", client2.baseURL)
	}
	if client2.Model() != "gpt-4o-mini" {
		t.Errorf("empty model option should keep the default, got %q", client2.Model())
	}

	customHTTP := &http.Client{}
	client3, _ := NewClient("gemini", "k", WithHTTPClient(customHTTP))
	if client3.httpClient != customHTTP {
		t.Error("expected custom HTTP client to be set")
	}
}

func TestAnalyzeSendsExactlyProvidedParts(t *testing.T) {
	video := &media.Encoded{Name: "clip.mp4", MIMEType: "video/mp4", Data: []byte{1, 2, 3}}

	tests := []struct {
		name  string
		in    AnalyzeInput
		texts []string // "" marks the media part
	}{
		{
			name:  "caption only",
			in:    AnalyzeInput{Caption: "Best serum ever"},
			texts: []string{analyzeInstruction, "CAPTION: Best serum ever"},
		},
		{
			name:  "script only",
			in:    AnalyzeInput{Script: "I tried it for 3 days"},
			texts: []string{analyzeInstruction, "SCRIPT: I tried it for 3 days"},
		},
		{
			name:  "video and caption, no script",
			in:    AnalyzeInput{Media: video, Caption: "new drop"},
			texts: []string{analyzeInstruction, "", "CAPTION: new drop"},
		},
		{
			name:  "all three",
			in:    AnalyzeInput{Media: video, Caption: "c", Script: "s"},
			texts: []string{analyzeInstruction, "", "CAPTION: c", "SCRIPT: s"},
		},
		{
			name:  "whitespace script omitted",
			in:    AnalyzeInput{Caption: "c", Script: "  \n"},
			texts: []string{analyzeInstruction, "CAPTION: c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: safeResponse}
			client := newTestClient(t, gen)

			if _, err := client.Analyze(context.Background(), tt.in); err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if len(gen.requests) != 1 {
				t.Fatalf("expected exactly 1 request, got %d", len(gen.requests))
			}

			req := gen.requests[0]
			if req.SystemInstruction != SystemPrompt {
				t.Error("expected the policy rubric as system instruction")
			}
			if len(req.Parts) != len(tt.texts) {
				t.Fatalf("expected %d parts, got %d: %+v", len(tt.texts), len(req.Parts), req.Parts)
			}
			for i, want := range tt.texts {
				got := req.Parts[i]
				if want == "" {
					if got.Media != video {
						t.Errorf("part %d: expected the media part, got %+v", i, got)
					}
					continue
				}
				if got.Media != nil || got.Text != want {
					t.Errorf("part %d: expected text %q, got %+v", i, want, got)
				}
			}
		})
	}
}

func TestAnalyzeNoInput(t *testing.T) {
	gen := &fakeGenerator{reply: safeResponse}
	client := newTestClient(t, gen)

	_, err := client.Analyze(context.Background(), AnalyzeInput{Caption: " ", Script: ""})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
	if len(gen.requests) != 0 {
		t.Errorf("expected no request, got %d", len(gen.requests))
	}
}

func TestTestCaption(t *testing.T) {
	gen := &fakeGenerator{reply: safeResponse}
	client := newTestClient(t, gen)

	result, err := client.TestCaption(context.Background(), "Glow in 3 days!")
	if err != nil {
		t.Fatalf("TestCaption failed: %v", err)
	}
	if result.Decision != DecisionSafe {
		t.Errorf("expected SAFE TO POST, got %q", result.Decision)
	}

	parts := gen.requests[0].Parts
	if len(parts) != 1 || parts[0].Text != "Analyze this caption for TikTok Shop compliance: Glow in 3 days!" {
		t.Errorf("unexpected caption parts: %+v", parts)
	}

	if _, err := client.TestCaption(context.Background(), ""); !errors.Is(err, ErrEmptyCaption) {
		t.Errorf("expected ErrEmptyCaption, got %v", err)
	}
	if len(gen.requests) != 1 {
		t.Errorf("empty caption must not issue a request")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	transportErr := errors.New("connection reset")

	tests := []struct {
		name    string
		gen     *fakeGenerator
		wantErr error
	}{
		{name: "transport", gen: &fakeGenerator{err: transportErr}, wantErr: transportErr},
		{name: "empty body", gen: &fakeGenerator{reply: ""}, wantErr: ErrMalformedResponse},
		{name: "not json", gen: &fakeGenerator{reply: "I cannot help with that"}, wantErr: ErrMalformedResponse},
		{name: "wrong shape", gen: &fakeGenerator{reply: `{"decision":"MAYBE"}`}, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.gen)
			res, err := client.Analyze(context.Background(), AnalyzeInput{Caption: "x"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
		})
	}
}

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func TestOpenAIBackend(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("expected Bearer auth, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)

		var resp chatCompletion
		resp.Choices = make([]struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		}, 1)
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = "```json\n" + safeResponse + "\n```"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("openai", "sk-test", WithBaseURL(server.URL+"/v1"), WithModel("gpt-test"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	img := &media.Encoded{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	result, err := client.Analyze(context.Background(), AnalyzeInput{Media: img, Caption: "hello"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.CategoryDetected != "apparel" {
		t.Errorf("expected category apparel, got %q", result.CategoryDetected)
	}

	if captured["model"] != "gpt-test" {
		t.Errorf("expected model gpt-test, got %v", captured["model"])
	}
	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("expected json_schema response format, got %v", format)
	}
	raw, _ := json.Marshal(captured["messages"])
	if !strings.Contains(string(raw), img.DataURL()) {
		t.Error("expected image data URL in user message")
	}
	if !strings.Contains(string(raw), "CAPTION: hello") {
		t.Error("expected caption part in user message")
	}
}

func TestOpenAIBackendRejectsVideo(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, _ := NewClient("openai", "sk-test", WithBaseURL(server.URL+"/v1"))
	video := &media.Encoded{MIMEType: "video/mp4", Data: []byte{1}}
	_, err := client.Analyze(context.Background(), AnalyzeInput{Media: video})
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Errorf("expected ErrUnsupportedMedia, got %v", err)
	}
	if called {
		t.Error("video must be rejected before any request")
	}
}

func TestOpenAIBackendQuota(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	client, _ := NewClient("openai", "sk-test", WithBaseURL(server.URL+"/v1"))
	_, err := client.TestCaption(context.Background(), "hi")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected exactly 1 call (no retry), got %d", callCount)
	}
}

func TestGeminiBackendQuota(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"with status", `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`},
		{"without status", `{"error":{"code":429,"message":"Quota exceeded"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := NewClient("gemini", "g-key", WithBaseURL(server.URL))
			_, err := client.TestCaption(context.Background(), "hi")
			if !errors.Is(err, ErrQuotaExceeded) {
				t.Errorf("expected ErrQuotaExceeded, got %v", err)
			}
		})
	}
}

func TestGeminiBackendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client, _ := NewClient("gemini", "g-key", WithBaseURL(server.URL))
	_, err := client.TestCaption(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("a 400 must not be reported as quota: %v", err)
	}
}

func TestGeminiBackend(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)

		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": safeResponse}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("gemini", "g-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Analyze(context.Background(), AnalyzeInput{Caption: "try it"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.OverallRiskScore != 10 {
		t.Errorf("expected score 10, got %v", result.OverallRiskScore)
	}
	if !strings.Contains(body, "CAPTION: try it") {
		t.Error("expected caption part in request body")
	}
	if !strings.Contains(body, "overallRiskScore") {
		t.Error("expected response schema in request body")
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, _ := NewClient("openai", "sk-test", WithBaseURL(server.URL+"/v1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.TestCaption(ctx, "hi"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
