// Package datasource provides durable persistence for the sheet tree and
// multi-source detection for sheetwork. It discovers, validates, and
// selects the freshest valid source from a SQLite database (sheet.db) and
// a JSON snapshot (sheet.json) in the sheetwork directory.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// SheetDirEnvVar overrides the sheetwork directory location.
const SheetDirEnvVar = "SHEETWORK_DIR"

// File names looked up inside the sheetwork directory.
const (
	SnapshotFileName = "sheet.json"
	DatabaseFileName = "sheet.db"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (sheet.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON snapshot (sheet.json)
	SourceTypeJSON SourceType = "json"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityJSON   = 50
)

// DataSource represents a potential source of sheet state
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// QuestionCount is the number of questions in the source (set during validation)
	QuestionCount int `json:"question_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, questions=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.QuestionCount, status)
}

// SheetDir returns the sheetwork directory path, respecting SHEETWORK_DIR.
// Otherwise falls back to .sheetwork in the given project path (or cwd if
// empty).
func SheetDir(projectPath string) (string, error) {
	if envDir := os.Getenv(SheetDirEnvVar); envDir != "" {
		return envDir, nil
	}
	if projectPath == "" {
		var err error
		projectPath, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	return filepath.Join(projectPath, ".sheetwork"), nil
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// SheetDir is the sheetwork directory path (optional, resolved via
	// SheetDir if empty)
	SheetDir string
	// ProjectPath is the project root path (optional, uses cwd if empty)
	ProjectPath string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Logger receives log messages during discovery; nil discards them
	Logger func(msg string)
}

// DiscoverSources finds all potential state sources in the sheetwork
// directory, newest first.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}

	dir := opts.SheetDir
	if dir == "" {
		var err error
		dir, err = SheetDir(opts.ProjectPath)
		if err != nil {
			return nil, err
		}
	}
	logf(fmt.Sprintf("Discovering sources in: %s", dir))

	var sources []DataSource
	candidates := []struct {
		name     string
		typ      SourceType
		priority int
	}{
		{DatabaseFileName, SourceTypeSQLite, PrioritySQLite},
		{SnapshotFileName, SourceTypeJSON, PriorityJSON},
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     c.typ,
			Path:     path,
			Priority: c.priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		logf(fmt.Sprintf("Found %s: %s (mod=%s)", c.typ, path, info.ModTime().Format(time.RFC3339)))
	}

	// Validate sources in parallel if requested. Validation opens each
	// file, so the errgroup keeps slow sources from serializing startup.
	if opts.ValidateAfterDiscovery {
		var g errgroup.Group
		for i := range sources {
			i := i
			g.Go(func() error {
				if err := ValidateSource(&sources[i]); err != nil {
					logf(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
				}
				return nil
			})
		}
		_ = g.Wait()

		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	// Sort by mod time, priority as tiebreak
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	logf(fmt.Sprintf("Discovered %d sources", len(sources)))
	return sources, nil
}

// SelectBestSource returns the preferred source from a discovery result:
// the freshest valid source, with priority breaking timestamp ties.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid sources available")
}
