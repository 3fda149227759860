package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalSorted serializes v with object keys sorted, the format the site
// artifacts and snapshot files are written in. indent is "" for compact
// output or the indentation unit for pretty output.
func MarshalSorted(v any, indent string) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// Round-trip through generic values: encoding/json emits map keys in
	// sorted order.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	if indent == "" {
		return json.Marshal(generic)
	}
	return json.MarshalIndent(generic, "", indent)
}

// Store persists one JSON snapshot file per source under a cache directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the cache file path for a source.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Exists reports whether a cached snapshot is present for the source.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Load reads the cached snapshot for a source. Returns (nil, nil) when no
// cache file exists.
func (s *Store) Load(name string) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// Save writes the snapshot with sorted keys, 2-space indentation and a
// trailing newline, creating the cache directory as needed.
func (s *Store) Save(name string, snap *Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := MarshalSorted(snap, "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %s: %w", name, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	return nil
}
