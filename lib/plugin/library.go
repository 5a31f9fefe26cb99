package plugin

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// Library is a shared reference to one opened module. It starts with one
// reference owned by the loader; every FunctionProxy holds another. The
// module is closed when the last reference is released, and never before.
type Library struct {
	id     uuid.UUID
	module dynlib.Library
	logger zerolog.Logger

	name    string
	version string

	refs      atomic.Int64
	closeOnce sync.Once
	released  atomic.Bool
}

func newLibrary(module dynlib.Library, logger zerolog.Logger) (*Library, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate library id: %w", err)
	}

	l := &Library{
		id:     id,
		module: module,
		logger: logger.With().Str("library_id", id.String()).Str("path", module.Path()).Logger(),
	}
	l.refs.Store(1)
	return l, nil
}

// ID returns the identity assigned when the library was loaded.
func (l *Library) ID() uuid.UUID {
	return l.id
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.module.Path()
}

// Name returns the plugin name from its declaration.
func (l *Library) Name() string {
	return l.name
}

// Version returns the plugin version from its declaration.
func (l *Library) Version() string {
	return l.version
}

// Refs returns the number of live references.
func (l *Library) Refs() int64 {
	return l.refs.Load()
}

// Released reports whether the module has been closed.
func (l *Library) Released() bool {
	return l.released.Load()
}

func (l *Library) lookup(name string) (dynlib.Symbol, error) {
	return l.module.Lookup(name)
}

func (l *Library) declare(d *Declaration) {
	l.name = d.Name
	l.version = d.Version
}

// acquire adds a reference. Only a current holder may call it.
func (l *Library) acquire() *Library {
	if l.refs.Add(1) <= 1 {
		panic("plugin: acquire on a released library")
	}
	return l
}

// release drops a reference and closes the module on the last one.
func (l *Library) release() {
	n := l.refs.Add(-1)
	switch {
	case n == 0:
		l.close()
	case n < 0:
		panic("plugin: library released more times than acquired")
	}
}

// close runs once. Close failures cannot be acted on by any caller, so
// they are only logged.
func (l *Library) close() {
	l.closeOnce.Do(func() {
		l.released.Store(true)
		if err := l.module.Close(); err != nil {
			l.logger.Warn().Err(err).Msg("failed to close library")
			return
		}
		l.logger.Debug().Msg("library closed")
	})
}
