// Package feature registers the user-facing tools and binds them to the
// generation pipeline.
package feature

import (
	"context"
	"fmt"
	"strconv"

	"collegeprep/genai"
	"collegeprep/history"
	"collegeprep/logger"
	"collegeprep/pipeline"
	"collegeprep/prompt"
	"collegeprep/store"
)

// Definition describes one tool: its storage key (stable across reloads),
// the fields its prompt consumes, and its export filename.
type Definition struct {
	Name        string
	StorageKey  string
	ExportFile  string
	Fields      []string
	BuildPrompt func(prompt.FormState) string
}

var definitions = []Definition{
	{
		Name:        "college",
		StorageKey:  "collegeData",
		ExportFile:  "CollegeMatches.txt",
		Fields:      []string{"gpa", "interests", "major", "year", "scores"},
		BuildPrompt: prompt.CollegeMatch,
	},
	{
		Name:        "plan",
		StorageKey:  "planData",
		ExportFile:  "Plan.txt",
		BuildPrompt: prompt.FourYearPlan,
	},
	{
		Name:        "essay",
		StorageKey:  "essayData",
		ExportFile:  "EssayFeedback.txt",
		Fields:      []string{"essay"},
		BuildPrompt: prompt.EssayFeedback,
	},
	{
		Name:        "resume",
		StorageKey:  "resumeData",
		ExportFile:  "Resume.txt",
		Fields:      []string{"resume"},
		BuildPrompt: prompt.ResumeTips,
	},
	{
		Name:        "interview-question",
		StorageKey:  "interviewData",
		ExportFile:  "Interview.txt",
		BuildPrompt: prompt.InterviewQuestion,
	},
	{
		Name:        "interview-feedback",
		StorageKey:  "interviewData",
		ExportFile:  "Interview.txt",
		Fields:      []string{"answer"},
		BuildPrompt: prompt.InterviewFeedback,
	},
	{
		Name:        "gpa",
		StorageKey:  "gpaData",
		ExportFile:  "GPA.txt",
		Fields:      []string{"grades"},
		BuildPrompt: prompt.GPAAnalysis,
	},
}

// Lookup finds a feature by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Names lists all registered feature names.
func Names() []string {
	names := make([]string, len(definitions))
	for i, def := range definitions {
		names[i] = def.Name
	}
	return names
}

// Runner executes features against one pipeline and the GPA stores.
type Runner struct {
	pipe      *pipeline.Pipeline
	store     store.Store
	history   *history.HistoryStore
	snapshots *history.SnapshotStore
}

func NewRunner(pipe *pipeline.Pipeline, st store.Store, hist *history.HistoryStore, snaps *history.SnapshotStore) *Runner {
	return &Runner{pipe: pipe, store: st, history: hist, snapshots: snaps}
}

// Run executes one feature invocation. The GPA feature additionally
// auto-captures a history entry and a date-scoped snapshot on success.
func (r *Runner) Run(ctx context.Context, name string, form prompt.FormState, target pipeline.OutputTarget) (pipeline.RunOutcome, error) {
	def, ok := Lookup(name)
	if !ok {
		return pipeline.RunOutcome{}, fmt.Errorf("unknown feature %q", name)
	}

	// Raw field values persist under their own keys so a reloaded form
	// can restore what the user typed.
	for field, value := range form {
		if err := r.store.SetString("field:"+field, value); err != nil {
			logger.Default().Warn("failed to persist form field", "field", field, "error", err)
		}
	}

	ctx = logger.WithContext(ctx, logger.FeatureKey, def.Name)
	req := pipeline.RunRequest{
		Prompt:     def.BuildPrompt(form),
		Target:     target,
		StorageKey: def.StorageKey,
	}
	if def.Name == "gpa" {
		req.OnComplete = r.captureGPA
	}
	return r.pipe.Run(ctx, req), nil
}

// LastOutput restores a feature's persisted HTML.
func (r *Runner) LastOutput(name string) (string, error) {
	def, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown feature %q", name)
	}
	return r.pipe.LastOutput(def.StorageKey), nil
}

func (r *Runner) captureGPA(text, html string, result genai.Result) {
	if !result.OK() {
		return
	}
	title, summary := history.DeriveEntry(text)
	if err := r.history.AddEntry(title, summary); err != nil {
		logger.Default().Warn("failed to capture gpa history entry", "error", err)
		return
	}
	rec := r.history.Record()
	semester := strconv.Itoa(rec.CurrentSemester)
	if err := r.snapshots.Save(semester, html); err != nil {
		logger.Default().Warn("failed to save gpa snapshot", "error", err)
	}
}
