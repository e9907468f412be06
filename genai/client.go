// Package genai calls the text generation endpoint and normalizes its
// heterogeneous responses into a single Result value.
package genai

import (
	"context"
	"fmt"
)

// FailureKind classifies why a generation attempt produced no text.
type FailureKind string

const (
	// KindNetwork is a transport failure reaching the endpoint.
	KindNetwork FailureKind = "network"
	// KindUpstream is a non-2xx status from the endpoint or proxy.
	KindUpstream FailureKind = "upstream"
	// KindNoUsableContent is a 2xx response with no extractable text.
	KindNoUsableContent FailureKind = "no_usable_content"
)

// Failure describes a failed generation attempt.
type Failure struct {
	Kind       FailureKind
	Message    string
	HTTPStatus int
}

func (f *Failure) Error() string {
	if f.HTTPStatus != 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.HTTPStatus, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Result is the outcome of one generation attempt: Text on success, or a
// non-nil Failure. It is never both and never neither.
type Result struct {
	Text    string
	Failure *Failure
}

// OK reports whether the attempt produced text.
func (r Result) OK() bool { return r.Failure == nil }

// Success wraps generated text.
func Success(text string) Result { return Result{Text: text} }

// Fail wraps a failure without an HTTP status.
func Fail(kind FailureKind, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message}}
}

// FailStatus wraps a failure carrying the upstream HTTP status.
func FailStatus(kind FailureKind, status int, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message, HTTPStatus: status}}
}

// Client sends one prompt to a generation backend. Implementations make a
// single attempt, never panic past this boundary, and never return an
// empty success.
type Client interface {
	Generate(ctx context.Context, prompt string) Result
}
