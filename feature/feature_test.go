package feature

import (
	"context"
	"strings"
	"testing"
	"time"

	"collegeprep/genai"
	"collegeprep/history"
	"collegeprep/pipeline"
	"collegeprep/store"
)

type stubClient struct {
	text string
}

func (s stubClient) Generate(context.Context, string) genai.Result {
	return genai.Success(s.text)
}

type nullTarget struct{}

func (nullTarget) ShowGenerating()  {}
func (nullTarget) ShowHTML(string)  {}
func (nullTarget) ShowError(string) {}

func newRunner(t *testing.T, client genai.Client) (*Runner, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	pipe := pipeline.New(client, st)
	return NewRunner(pipe, st, history.New(st), history.NewSnapshots(st)), st
}

func TestLookupKnowsEveryRegisteredName(t *testing.T) {
	for _, name := range Names() {
		def, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if def.StorageKey == "" || def.ExportFile == "" || def.BuildPrompt == nil {
			t.Fatalf("incomplete definition: %+v", def)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup accepted an unknown feature")
	}
}

func TestRunPersistsUnderFeatureKey(t *testing.T) {
	runner, st := newRunner(t, stubClient{text: "# Matches"})
	outcome, err := runner.Run(context.Background(), "college", nil, nullTarget{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if outcome.HTML != "<h1>Matches</h1>" {
		t.Fatalf("outcome html = %q", outcome.HTML)
	}
	if got := st.GetString("collegeData", ""); got != "<h1>Matches</h1>" {
		t.Fatalf("persisted = %q", got)
	}
	if got, _ := runner.LastOutput("college"); got != "<h1>Matches</h1>" {
		t.Fatalf("LastOutput = %q", got)
	}
}

func TestRunPersistsRawFormFields(t *testing.T) {
	runner, st := newRunner(t, stubClient{text: "x"})
	form := map[string]string{"gpa": "3.8", "major": "Biology"}
	if _, err := runner.Run(context.Background(), "college", form, nullTarget{}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := st.GetString("field:gpa", ""); got != "3.8" {
		t.Fatalf("field:gpa = %q", got)
	}
	if got := st.GetString("field:major", ""); got != "Biology" {
		t.Fatalf("field:major = %q", got)
	}
}

func TestRunUnknownFeature(t *testing.T) {
	runner, _ := newRunner(t, stubClient{text: "x"})
	if _, err := runner.Run(context.Background(), "bogus", nil, nullTarget{}); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}

func TestGPARunAutoCapturesHistoryAndSnapshot(t *testing.T) {
	text := "GPA Summary\nUnweighted GPA: 3.72\nWeighted GPA: 4.05"
	runner, st := newRunner(t, stubClient{text: text})

	outcome, err := runner.Run(context.Background(), "gpa", map[string]string{"grades": "Bio: A"}, nullTarget{})
	if err != nil || outcome.Failure != nil {
		t.Fatalf("Run = %+v, err %v", outcome, err)
	}

	rec := runner.history.Record()
	entries := rec.History["1"]
	if len(entries) != 1 {
		t.Fatalf("history entries = %+v", entries)
	}
	if entries[0].Title != "Unweighted GPA: 3.72" {
		t.Fatalf("entry title = %q", entries[0].Title)
	}
	if !strings.HasPrefix(text, entries[0].Summary) {
		t.Fatalf("entry summary = %q", entries[0].Summary)
	}

	date := time.Now().Format("2006-01-02")
	html, ok := runner.snapshots.Get("1", date)
	if !ok {
		t.Fatalf("no snapshot for semester 1 on %s", date)
	}
	if html != outcome.HTML {
		t.Fatalf("snapshot = %q, want rendered output", html)
	}
	if got := st.GetString("gpaData", ""); got != outcome.HTML {
		t.Fatalf("persisted = %q", got)
	}
}

func TestNonGPARunDoesNotTouchHistory(t *testing.T) {
	runner, _ := newRunner(t, stubClient{text: "plan text"})
	if _, err := runner.Run(context.Background(), "plan", nil, nullTarget{}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if entries := runner.history.Record().History["1"]; len(entries) != 0 {
		t.Fatalf("plan run wrote history: %+v", entries)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	prefs := NewPrefs(store.NewMemoryStore())
	if prefs.Theme() != "light" {
		t.Fatalf("default theme = %q", prefs.Theme())
	}
	if err := prefs.SetTheme("dark"); err != nil {
		t.Fatalf("SetTheme error: %v", err)
	}
	if prefs.Theme() != "dark" {
		t.Fatalf("theme = %q", prefs.Theme())
	}

	if !prefs.SidebarExpanded() {
		t.Fatal("sidebar should default to expanded")
	}
	_ = prefs.SetSidebarExpanded(false)
	if prefs.SidebarExpanded() {
		t.Fatal("sidebar still expanded")
	}
}
