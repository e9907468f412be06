package history

import (
	"strings"
	"testing"
	"time"

	"collegeprep/store"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	h := New(store.NewMemoryStore())
	h.now = func() time.Time {
		return time.Date(2026, 8, 28, 15, 4, 0, 0, time.UTC)
	}
	return h
}

func TestRecordLazyDefault(t *testing.T) {
	h := newTestStore(t)
	rec := h.Record()
	if rec.SemesterCount != 2 || rec.CurrentSemester != 1 {
		t.Fatalf("default record = %+v", rec)
	}
	for _, key := range []string{"1", "2", "3"} {
		if rec.History[key] == nil {
			t.Fatalf("history slot %q not materialized", key)
		}
		if len(rec.History[key]) != 0 {
			t.Fatalf("history slot %q not empty", key)
		}
	}
}

func TestAddThenDeleteRestoresEmpty(t *testing.T) {
	h := newTestStore(t)
	if err := h.AddEntry("Unweighted GPA: 3.8", "summary"); err != nil {
		t.Fatalf("AddEntry error: %v", err)
	}
	if err := h.DeleteEntry(0); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}
	if got := h.Record().History["1"]; len(got) != 0 {
		t.Fatalf("history not empty after delete: %+v", got)
	}
}

func TestAddEntryPrependsWithDate(t *testing.T) {
	h := newTestStore(t)
	_ = h.AddEntry("first", "s1")
	_ = h.AddEntry("second", "s2")
	entries := h.Record().History["1"]
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Title != "second" {
		t.Fatalf("newest entry not first: %+v", entries)
	}
	if entries[0].Date != "Aug 28, 2026 3:04 PM" {
		t.Fatalf("date format = %q", entries[0].Date)
	}
}

func TestDeleteEntryOutOfRangeIsNoOp(t *testing.T) {
	h := newTestStore(t)
	_ = h.AddEntry("only", "s")
	if err := h.DeleteEntry(5); err != nil {
		t.Fatalf("DeleteEntry(5) error: %v", err)
	}
	if err := h.DeleteEntry(-1); err != nil {
		t.Fatalf("DeleteEntry(-1) error: %v", err)
	}
	if got := h.Record().History["1"]; len(got) != 1 {
		t.Fatalf("entry lost by out-of-range delete: %+v", got)
	}
}

func TestChangeCurrentSemesterRoutesEntries(t *testing.T) {
	h := newTestStore(t)
	if err := h.ChangeCurrentSemester(2); err != nil {
		t.Fatalf("ChangeCurrentSemester error: %v", err)
	}
	_ = h.AddEntry("spring", "s")
	rec := h.Record()
	if len(rec.History["2"]) != 1 {
		t.Fatalf("entry missing from semester 2: %+v", rec.History)
	}
	if len(rec.History["1"]) != 0 {
		t.Fatalf("semester 1 changed: %+v", rec.History["1"])
	}
}

func TestChangeCurrentSemesterBounds(t *testing.T) {
	h := newTestStore(t)
	if err := h.ChangeCurrentSemester(3); err == nil {
		t.Fatal("expected error: semester 3 with count 2")
	}
	if err := h.ChangeCurrentSemester(0); err == nil {
		t.Fatal("expected error: semester 0")
	}
}

func TestChangeSemesterCountClampsCurrent(t *testing.T) {
	h := newTestStore(t)
	if err := h.ChangeSemesterCount(3); err != nil {
		t.Fatalf("ChangeSemesterCount error: %v", err)
	}
	_ = h.ChangeCurrentSemester(3)
	if err := h.ChangeSemesterCount(2); err != nil {
		t.Fatalf("ChangeSemesterCount error: %v", err)
	}
	if rec := h.Record(); rec.CurrentSemester != 2 {
		t.Fatalf("current semester = %d, want clamped to 2", rec.CurrentSemester)
	}
	if err := h.ChangeSemesterCount(4); err == nil {
		t.Fatal("expected error for count 4")
	}
}

func TestClearAndReset(t *testing.T) {
	h := newTestStore(t)
	_ = h.AddEntry("a", "s")
	_ = h.ChangeCurrentSemester(2)
	_ = h.AddEntry("b", "s")

	if err := h.ClearCurrentSemester(); err != nil {
		t.Fatalf("ClearCurrentSemester error: %v", err)
	}
	rec := h.Record()
	if len(rec.History["2"]) != 0 {
		t.Fatal("current semester not cleared")
	}
	if len(rec.History["1"]) != 1 {
		t.Fatal("other semester was cleared too")
	}

	if err := h.ResetAll(); err != nil {
		t.Fatalf("ResetAll error: %v", err)
	}
	rec = h.Record()
	if rec.SemesterCount != 2 || rec.CurrentSemester != 1 || len(rec.History["1"]) != 0 {
		t.Fatalf("record not reset: %+v", rec)
	}
}

func TestDeriveEntryPrefersUnweightedLine(t *testing.T) {
	text := "GPA Report\n\nYour Unweighted GPA is 3.72\nWeighted GPA: 4.1"
	title, summary := DeriveEntry(text)
	if title != "Your Unweighted GPA is 3.72" {
		t.Fatalf("title = %q", title)
	}
	if !strings.HasPrefix(text, summary) {
		t.Fatalf("summary %q is not a prefix of the raw text", summary)
	}
}

func TestDeriveEntryFallsBackToFirstLine(t *testing.T) {
	title, _ := DeriveEntry("\n\nSome analysis\nmore detail")
	if title != "Some analysis" {
		t.Fatalf("title = %q", title)
	}
}

func TestDeriveEntrySummaryLimit(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, summary := DeriveEntry(long)
	if len([]rune(summary)) != summaryLimit {
		t.Fatalf("summary length = %d", len([]rune(summary)))
	}
}
