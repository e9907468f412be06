package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiClientSuccess(t *testing.T) {
	var gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"# Reach\n- School A"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(srv.URL, "test-key", srv.Client())
	if err != nil {
		t.Fatalf("NewGeminiClient error: %v", err)
	}
	res := client.Generate(context.Background(), "match me")
	if !res.OK() {
		t.Fatalf("Generate failed: %v", res.Failure)
	}
	if res.Text != "# Reach\n- School A" {
		t.Fatalf("Generate text = %q", res.Text)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	var req geminiRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body not json: %v", err)
	}
	if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "match me" {
		t.Fatalf("unexpected request envelope: %s", gotBody)
	}
}

func TestGeminiClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := NewGeminiClient(srv.URL, "test-key", nil)
	if err != nil {
		t.Fatalf("NewGeminiClient error: %v", err)
	}
	res := client.Generate(context.Background(), "anything")
	if res.OK() {
		t.Fatal("expected failure on unreachable endpoint")
	}
	if res.Failure.Kind != KindNetwork {
		t.Fatalf("failure kind = %q, want network", res.Failure.Kind)
	}
}

func TestGeminiClientUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, _ := NewGeminiClient(srv.URL, "test-key", srv.Client())
	res := client.Generate(context.Background(), "anything")
	if res.OK() {
		t.Fatal("expected failure on 429")
	}
	if res.Failure.Kind != KindUpstream {
		t.Fatalf("failure kind = %q, want upstream", res.Failure.Kind)
	}
	if res.Failure.HTTPStatus != http.StatusTooManyRequests {
		t.Fatalf("failure status = %d", res.Failure.HTTPStatus)
	}
	if !strings.Contains(res.Failure.Message, "quota exceeded") {
		t.Fatalf("failure message lacks body excerpt: %q", res.Failure.Message)
	}
}

func TestGeminiClientNoUsableContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	client, _ := NewGeminiClient(srv.URL, "test-key", srv.Client())
	res := client.Generate(context.Background(), "anything")
	if res.OK() {
		t.Fatalf("expected failure, got text %q", res.Text)
	}
	if res.Failure.Kind != KindNoUsableContent {
		t.Fatalf("failure kind = %q, want no_usable_content", res.Failure.Kind)
	}
	if !strings.Contains(res.Failure.Message, "no usable text") {
		t.Fatalf("failure message = %q", res.Failure.Message)
	}
}

func TestProxyClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req proxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PromptText == "" {
			t.Errorf("bad proxy request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"proxied"}`))
	}))
	defer srv.Close()

	client, err := NewProxyClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewProxyClient error: %v", err)
	}
	res := client.Generate(context.Background(), "hello")
	if !res.OK() || res.Text != "proxied" {
		t.Fatalf("Generate = %+v", res)
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient("https://example.test", "", nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
