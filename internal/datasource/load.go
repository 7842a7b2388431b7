package datasource

import (
	"fmt"

	"github.com/vanderheijden86/sheetwork/pkg/debug"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// LoadState performs multi-source detection and loading. It discovers the
// available sources (SQLite, JSON snapshot), validates them, selects the
// freshest valid one, and loads the state from it. SQLite is preferred over
// the snapshot when both carry the same timestamp, since the database
// reflects the most recent writes.
func LoadState(projectPath string) (model.State, error) {
	dir, err := SheetDir(projectPath)
	if err != nil {
		return model.State{}, err
	}
	return LoadStateFromDir(dir)
}

// LoadStateFromDir performs source detection within a known sheetwork
// directory. Useful when the caller already resolved the directory.
func LoadStateFromDir(dir string) (model.State, error) {
	sources, err := DiscoverSources(DiscoveryOptions{
		SheetDir:               dir,
		ValidateAfterDiscovery: true,
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		return model.State{}, err
	}
	if len(sources) == 0 {
		return model.State{}, fmt.Errorf("no sheet sources found in %s", dir)
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		return model.State{}, err
	}
	debug.Log("Loading state from %s", best.Path)
	return LoadFromSource(best)
}

// LoadFromSource loads state from a specific DataSource, dispatching on the
// source type.
func LoadFromSource(source DataSource) (model.State, error) {
	switch source.Type {
	case SourceTypeSQLite:
		db, err := OpenSQLiteStore(source.Path)
		if err != nil {
			return model.State{}, fmt.Errorf("opening SQLite source %s: %w", source.Path, err)
		}
		defer db.Close()
		return db.Load()

	case SourceTypeJSON:
		return NewJSONStore(source.Path).Load()

	default:
		return model.State{}, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
