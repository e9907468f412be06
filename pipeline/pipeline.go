// Package pipeline orchestrates one feature invocation: build prompt,
// call the generation client, render, persist, notify.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"collegeprep/genai"
	"collegeprep/logger"
	"collegeprep/markdown"
	"collegeprep/store"
)

// OutputTarget is the external surface a run reports into (a page panel,
// the console). Calls are visual side effects only.
type OutputTarget interface {
	ShowGenerating()
	ShowHTML(html string)
	ShowError(message string)
}

// CompleteFunc is invoked after a run settles. On failure text and html
// are empty and the result carries the failure.
type CompleteFunc func(text, html string, result genai.Result)

// RunRequest describes one feature invocation.
type RunRequest struct {
	Prompt     string
	Target     OutputTarget
	StorageKey string
	OnComplete CompleteFunc
}

// RunOutcome reports how a run settled. Stale means a newer run for the
// same storage key started while this one was in flight; the result was
// discarded without touching the target or the store.
type RunOutcome struct {
	Text    string
	HTML    string
	Failure *genai.Failure
	Stale   bool
}

// Pipeline runs feature invocations against one client and one store.
// Overlapping runs for the same storage key cannot interleave writes: the
// latest trigger wins, and identical concurrent (key, prompt) pairs share
// a single upstream call.
type Pipeline struct {
	client genai.Client
	store  store.Store
	log    *slog.Logger
	group  singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

func New(client genai.Client, s store.Store) *Pipeline {
	return &Pipeline{
		client: client,
		store:  s,
		log:    logger.Default(),
		gen:    make(map[string]uint64),
	}
}

// Run executes one invocation end to end.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) RunOutcome {
	log := logger.FromContext(ctx).With("storage_key", req.StorageKey)

	id := p.nextGeneration(req.StorageKey)
	req.Target.ShowGenerating()

	v, _, _ := p.group.Do(req.StorageKey+"\x00"+req.Prompt, func() (any, error) {
		return p.client.Generate(ctx, req.Prompt), nil
	})
	result := v.(genai.Result)

	if !p.isLatest(req.StorageKey, id) {
		log.Info("discarding stale generation result")
		return RunOutcome{Stale: true}
	}

	if !result.OK() {
		log.Warn("generation failed",
			"kind", string(result.Failure.Kind),
			"status", result.Failure.HTTPStatus,
			"message", result.Failure.Message,
		)
		req.Target.ShowError(result.Failure.Message)
		p.invokeComplete(req.OnComplete, "", "", result)
		return RunOutcome{Failure: result.Failure}
	}

	html := markdown.Render(result.Text)
	req.Target.ShowHTML(html)
	if err := p.store.SetString(req.StorageKey, html); err != nil {
		// Persistence is advisory; the run already succeeded.
		log.Warn("failed to persist rendered output", "error", err)
	}
	p.invokeComplete(req.OnComplete, result.Text, html, result)

	return RunOutcome{Text: result.Text, HTML: html}
}

// LastOutput returns the persisted HTML for a storage key, so a reloaded
// view can restore the previous result without re-querying.
func (p *Pipeline) LastOutput(storageKey string) string {
	return p.store.GetString(storageKey, "")
}

// invokeComplete runs the callback, containing any panic so it cannot
// change the pipeline's own outcome.
func (p *Pipeline) invokeComplete(fn CompleteFunc, text, html string, result genai.Result) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("completion callback panicked", "panic", r)
		}
	}()
	fn(text, html, result)
}

func (p *Pipeline) nextGeneration(key string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen[key]++
	return p.gen[key]
}

func (p *Pipeline) isLatest(key string, id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen[key] == id
}
