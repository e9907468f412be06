package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProxyClient calls the thin generation proxy instead of the third-party
// API, so no provider credential lives on this side.
type ProxyClient struct {
	baseURL string
	client  *http.Client
}

func NewProxyClient(baseURL string, client *http.Client) (*ProxyClient, error) {
	if baseURL == "" {
		return nil, errors.New("proxy base url is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ProxyClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

type proxyRequest struct {
	PromptText string `json:"promptText"`
}

func (p *ProxyClient) Generate(ctx context.Context, prompt string) (res Result) {
	defer recoverToFailure(&res)

	body, err := json.Marshal(proxyRequest{PromptText: prompt})
	if err != nil {
		return Fail(KindNetwork, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return Fail(KindNetwork, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Fail(KindNetwork, "AI request failed: network error")
	}
	defer resp.Body.Close()

	return resultFromResponse(resp)
}
