package history

import (
	"sort"
	"time"

	"collegeprep/store"
)

const snapshotKey = "gpaSnapshots"

// SnapshotStore persists one rendered-HTML result per (semester, date)
// pair. Saving again on the same date overwrites the earlier snapshot.
type SnapshotStore struct {
	store store.Store
	now   func() time.Time
}

func NewSnapshots(s store.Store) *SnapshotStore {
	return &SnapshotStore{store: s, now: time.Now}
}

// snapshots maps semester label -> ISO date -> rendered HTML.
type snapshots map[string]map[string]string

func (s *SnapshotStore) load() snapshots {
	snaps := snapshots{}
	s.store.GetJSON(snapshotKey, &snaps)
	return snaps
}

// Save stores html for semester under today's date.
func (s *SnapshotStore) Save(semester, html string) error {
	return s.SaveAt(semester, s.now().Format("2006-01-02"), html)
}

// SaveAt stores html for an explicit (semester, date) pair, replacing any
// earlier snapshot for that pair.
func (s *SnapshotStore) SaveAt(semester, date, html string) error {
	snaps := s.load()
	if snaps[semester] == nil {
		snaps[semester] = make(map[string]string)
	}
	snaps[semester][date] = html
	return s.store.SetJSON(snapshotKey, snaps)
}

// Get returns the snapshot for a (semester, date) pair.
func (s *SnapshotStore) Get(semester, date string) (string, bool) {
	html, ok := s.load()[semester][date]
	return html, ok
}

// Dates lists the saved dates for a semester, most recent first.
func (s *SnapshotStore) Dates(semester string) []string {
	byDate := s.load()[semester]
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Delete removes one snapshot; a missing pair is a no-op.
func (s *SnapshotStore) Delete(semester, date string) error {
	snaps := s.load()
	byDate, ok := snaps[semester]
	if !ok {
		return nil
	}
	if _, ok := byDate[date]; !ok {
		return nil
	}
	delete(byDate, date)
	if len(byDate) == 0 {
		delete(snaps, semester)
	}
	return s.store.SetJSON(snapshotKey, snaps)
}
