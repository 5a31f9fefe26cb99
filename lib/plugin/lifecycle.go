// Package plugin provides lifecycle management functionality for loaded libraries.
// This file contains bulk loading, selective unloading and shutdown.
package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// LoadAll loads paths in order and stops at the first failure. Libraries
// loaded before the failure stay loaded.
func (m *Manager) LoadAll(paths ...string) error {
	for _, path := range paths {
		if err := m.Load(path); err != nil {
			return fmt.Errorf("plugin %q: %w", path, err)
		}
	}
	return nil
}

// LoadDir loads every shared object in dir. A missing directory is not an
// error. Individual failures are logged, skipped and returned joined.
func (m *Manager) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		m.logger.Debug().Str("dir", dir).Msg("plugin directory does not exist")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat plugin directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("plugin path is not a directory: %s", dir)
	}

	var matches []string
	for _, ext := range dynlib.Extensions() {
		found, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return fmt.Errorf("failed to scan plugin directory: %w", err)
		}
		matches = append(matches, found...)
	}
	sort.Strings(matches)

	if len(matches) == 0 {
		m.logger.Debug().Str("dir", dir).Msg("no plugin files found")
		return nil
	}
	m.logger.Info().Int("count", len(matches)).Str("dir", dir).Msg("plugin files found")

	var errs []error
	for _, path := range matches {
		if err := m.Load(path); err != nil {
			m.logger.Warn().Err(err).Str("path", path).Msg("failed to load plugin, skipping")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UnloadLibrary drops only the functions that came from the library with
// the given id.
func (m *Manager) UnloadLibrary(id uuid.UUID) error {
	var dropped []*FunctionProxy

	m.mu.Lock()
	for name, p := range m.functions {
		if p.LibraryID() == id {
			dropped = append(dropped, p)
			delete(m.functions, name)
		}
	}
	m.mu.Unlock()

	if len(dropped) == 0 {
		return fmt.Errorf("%w: %s", ErrLibraryNotLoaded, id)
	}

	for _, p := range dropped {
		p.release()
	}

	m.logger.Debug().Str("library_id", id.String()).Int("functions", len(dropped)).Msg("library unloaded")
	return nil
}

// Close unloads everything and rejects further loads. It must run before
// the process exits.
func (m *Manager) Close() error {
	m.closed.Store(true)
	m.Unload()
	return nil
}
