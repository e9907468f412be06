package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"collegeprep/logger"
)

const stateFileName = "state.json"

// FileStore keeps all keys in one JSON document on disk, mutated one key
// per write and rewritten atomically (temp file + rename).
type FileStore struct {
	mu   sync.Mutex
	path string
	doc  []byte
	log  *slog.Logger
}

// OpenFileStore loads (or lazily creates) the state document under dir.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, stateFileName)
	doc, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		doc = []byte("{}")
	}
	if !gjson.ValidBytes(doc) {
		// A torn write leaves prior state unrecoverable; start fresh
		// rather than fail every subsequent read.
		logger.Default().Warn("state file corrupt, starting empty", "path", path)
		doc = []byte("{}")
	}

	return &FileStore{path: path, doc: doc, log: logger.Default()}, nil
}

func (s *FileStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.SetBytes(s.doc, escapeKey(key), value)
	if err != nil {
		return err
	}
	return s.commit(doc)
}

func (s *FileStore) GetString(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := gjson.GetBytes(s.doc, escapeKey(key))
	if !res.Exists() {
		return fallback
	}
	if res.Type != gjson.String {
		s.log.Warn("stored value is not a string, using fallback", "key", key)
		return fallback
	}
	return res.String()
}

func (s *FileStore) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.SetRawBytes(s.doc, escapeKey(key), raw)
	if err != nil {
		return err
	}
	return s.commit(doc)
}

func (s *FileStore) GetJSON(key string, out any) bool {
	s.mu.Lock()
	res := gjson.GetBytes(s.doc, escapeKey(key))
	s.mu.Unlock()

	if !res.Exists() {
		return false
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		s.log.Warn("stored value corrupt, using fallback", "key", key, "error", err)
		return false
	}
	return true
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.DeleteBytes(s.doc, escapeKey(key))
	if err != nil {
		return err
	}
	return s.commit(doc)
}

// commit swaps in the new document only after it is durable on disk.
func (s *FileStore) commit(doc []byte) error {
	if err := writeFileAtomic(s.path, doc, 0o600); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// escapeKey neutralizes gjson path syntax so arbitrary key names address
// exactly one top-level member.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	// Ensure rename works even if the destination already exists.
	_ = os.Remove(path)
	return os.Rename(tmpPath, path)
}
