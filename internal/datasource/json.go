package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// JSONStore reads and writes the sheet state as a single JSON snapshot.
// It satisfies the store's persistence gateway.
type JSONStore struct {
	path string
}

// NewJSONStore creates a snapshot store at the given path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the snapshot file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads and decodes the snapshot. Loading is forced to false: an
// in-progress load is never restored.
func (s *JSONStore) Load() (model.State, error) {
	defer metrics.Timer(metrics.StateLoad)()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.State{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var st model.State
	if err := json.Unmarshal(data, &st); err != nil {
		return model.State{}, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}
	st.Loading = false
	return st, nil
}

// Save encodes the state and writes it atomically: the snapshot is written
// to a temp file in the same directory and renamed over the target, so a
// crash mid-write never leaves a truncated snapshot behind. Loading is
// always persisted as false.
func (s *JSONStore) Save(st model.State) error {
	defer metrics.Timer(metrics.StateSave)()

	st.Loading = false

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sheet-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
