package history

import (
	"testing"
	"time"

	"collegeprep/store"
)

func TestSnapshotSameDateOverwrites(t *testing.T) {
	s := NewSnapshots(store.NewMemoryStore())
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	}

	if err := s.Save("1", "<p>first</p>"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Save("1", "<p>second</p>"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	dates := s.Dates("1")
	if len(dates) != 1 {
		t.Fatalf("dates = %v, want exactly one", dates)
	}
	html, ok := s.Get("1", "2026-08-28")
	if !ok || html != "<p>second</p>" {
		t.Fatalf("Get = %q (ok=%v), want latest value", html, ok)
	}
}

func TestSnapshotSemestersAreIndependent(t *testing.T) {
	s := NewSnapshots(store.NewMemoryStore())
	_ = s.SaveAt("1", "2026-08-27", "<p>one</p>")
	_ = s.SaveAt("2", "2026-08-27", "<p>two</p>")

	if html, _ := s.Get("1", "2026-08-27"); html != "<p>one</p>" {
		t.Fatalf("semester 1 = %q", html)
	}
	if html, _ := s.Get("2", "2026-08-27"); html != "<p>two</p>" {
		t.Fatalf("semester 2 = %q", html)
	}
}

func TestSnapshotDatesMostRecentFirst(t *testing.T) {
	s := NewSnapshots(store.NewMemoryStore())
	_ = s.SaveAt("1", "2026-08-01", "a")
	_ = s.SaveAt("1", "2026-08-15", "b")
	_ = s.SaveAt("1", "2026-07-30", "c")

	dates := s.Dates("1")
	want := []string{"2026-08-15", "2026-08-01", "2026-07-30"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v", dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
}

func TestSnapshotDelete(t *testing.T) {
	s := NewSnapshots(store.NewMemoryStore())
	_ = s.SaveAt("1", "2026-08-01", "a")

	if err := s.Delete("1", "2026-08-01"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok := s.Get("1", "2026-08-01"); ok {
		t.Fatal("snapshot survived delete")
	}
	// Deleting a missing pair is a no-op.
	if err := s.Delete("9", "2026-01-01"); err != nil {
		t.Fatalf("Delete(missing) error: %v", err)
	}
}
