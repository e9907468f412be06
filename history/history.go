// Package history persists GPA results, partitioned by semester and by
// date.
package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"collegeprep/store"
)

const recordKey = "gpaHistory"

// maxSemesters slots are always materialized regardless of the configured
// count, so switching 2<->3 semesters never loses saved entries.
const maxSemesters = 3

// Entry is one saved GPA result, most recent first.
type Entry struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

// Record is the per-profile semester history.
type Record struct {
	SemesterCount   int                `json:"semesterCount"`
	CurrentSemester int                `json:"currentSemester"`
	History         map[string][]Entry `json:"history"`
}

func defaultRecord() Record {
	rec := Record{SemesterCount: 2, CurrentSemester: 1, History: make(map[string][]Entry)}
	ensureSlots(&rec)
	return rec
}

func ensureSlots(rec *Record) {
	if rec.History == nil {
		rec.History = make(map[string][]Entry)
	}
	for i := 1; i <= maxSemesters; i++ {
		key := strconv.Itoa(i)
		if rec.History[key] == nil {
			rec.History[key] = []Entry{}
		}
	}
}

// HistoryStore is the state machine over Record. Every mutation persists
// before returning.
type HistoryStore struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *HistoryStore {
	return &HistoryStore{store: s, now: time.Now}
}

// Record returns the current record, creating and persisting the default
// on first read (or when the stored value is corrupt).
func (h *HistoryStore) Record() Record {
	var rec Record
	if !h.store.GetJSON(recordKey, &rec) || rec.SemesterCount == 0 {
		rec = defaultRecord()
		_ = h.store.SetJSON(recordKey, rec)
		return rec
	}
	ensureSlots(&rec)
	return rec
}

// ChangeSemesterCount sets the number of semesters in use (2 or 3).
func (h *HistoryStore) ChangeSemesterCount(n int) error {
	if n != 2 && n != 3 {
		return fmt.Errorf("semester count must be 2 or 3, got %d", n)
	}
	rec := h.Record()
	rec.SemesterCount = n
	if rec.CurrentSemester > n {
		rec.CurrentSemester = n
	}
	ensureSlots(&rec)
	return h.store.SetJSON(recordKey, rec)
}

// ChangeCurrentSemester selects which semester new entries land in.
func (h *HistoryStore) ChangeCurrentSemester(k int) error {
	rec := h.Record()
	if k < 1 || k > rec.SemesterCount {
		return fmt.Errorf("semester %d out of range 1..%d", k, rec.SemesterCount)
	}
	rec.CurrentSemester = k
	return h.store.SetJSON(recordKey, rec)
}

// AddEntry prepends a new entry to the current semester with a
// display-formatted date.
func (h *HistoryStore) AddEntry(title, summary string) error {
	rec := h.Record()
	key := strconv.Itoa(rec.CurrentSemester)
	entry := Entry{
		Title:   title,
		Summary: summary,
		Date:    h.now().Format("Jan 2, 2006 3:04 PM"),
	}
	rec.History[key] = append([]Entry{entry}, rec.History[key]...)
	return h.store.SetJSON(recordKey, rec)
}

// DeleteEntry removes the entry at index from the current semester.
// An out-of-range index is a no-op.
func (h *HistoryStore) DeleteEntry(index int) error {
	rec := h.Record()
	key := strconv.Itoa(rec.CurrentSemester)
	entries := rec.History[key]
	if index < 0 || index >= len(entries) {
		return nil
	}
	rec.History[key] = append(entries[:index], entries[index+1:]...)
	return h.store.SetJSON(recordKey, rec)
}

// ClearCurrentSemester empties the current semester's history.
func (h *HistoryStore) ClearCurrentSemester() error {
	rec := h.Record()
	rec.History[strconv.Itoa(rec.CurrentSemester)] = []Entry{}
	return h.store.SetJSON(recordKey, rec)
}

// ResetAll replaces the record with the initial default.
func (h *HistoryStore) ResetAll() error {
	return h.store.SetJSON(recordKey, defaultRecord())
}

const summaryLimit = 240

// DeriveEntry derives a history entry title and summary from generated
// text. The title is the first line mentioning an unweighted figure, else
// the first non-empty line; the summary is a fixed-length prefix of the
// raw text. Best effort: a response that labels nothing gets its opening
// line as the title.
func DeriveEntry(text string) (title, summary string) {
	firstNonEmpty := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if firstNonEmpty == "" {
			firstNonEmpty = trimmed
		}
		if strings.Contains(strings.ToLower(trimmed), "unweighted") {
			title = trimmed
			break
		}
	}
	if title == "" {
		title = firstNonEmpty
	}

	runes := []rune(text)
	if len(runes) > summaryLimit {
		runes = runes[:summaryLimit]
	}
	return title, string(runes)
}
