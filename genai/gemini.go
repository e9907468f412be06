package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiClient calls the Gemini generateContent endpoint directly.
type GeminiClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewGeminiClient requires the endpoint URL and an API key resolved by the
// caller (from the environment, never a source literal).
func NewGeminiClient(endpoint, apiKey string, client *http.Client) (*GeminiClient, error) {
	if endpoint == "" {
		return nil, errors.New("gemini endpoint is required")
	}
	if apiKey == "" {
		return nil, errors.New("gemini api key missing; set the configured env var")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &GeminiClient{endpoint: endpoint, apiKey: apiKey, client: client}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (res Result) {
	defer recoverToFailure(&res)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return Fail(KindNetwork, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Fail(KindNetwork, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Fail(KindNetwork, "AI request failed: network error")
	}
	defer resp.Body.Close()

	return resultFromResponse(resp)
}

// resultFromResponse applies the shared status and extraction rules to an
// HTTP response from any JSON generation endpoint.
func resultFromResponse(resp *http.Response) Result {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Fail(KindNetwork, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FailStatus(KindUpstream, resp.StatusCode,
			fmt.Sprintf("AI request failed: %d: %s", resp.StatusCode, excerpt(data, 200)))
	}

	text, ok := ExtractText(data)
	if !ok {
		return FailStatus(KindNoUsableContent, resp.StatusCode, "no usable text in response")
	}
	return Success(text)
}

func excerpt(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit])
}

// recoverToFailure keeps panics from crossing the client boundary.
func recoverToFailure(res *Result) {
	if r := recover(); r != nil {
		*res = Fail(KindNetwork, fmt.Sprintf("generation panicked: %v", r))
	}
}
