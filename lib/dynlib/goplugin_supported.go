//go:build (linux || darwin || freebsd) && cgo

package dynlib

import (
	"fmt"
	"plugin"
	"sync/atomic"
)

// GoPlugin returns an Opener for Go plugins built with -buildmode=plugin.
func GoPlugin() Opener {
	return OpenerFunc(openGoPlugin)
}

type goLibrary struct {
	path   string
	plugin *plugin.Plugin
	closed atomic.Bool
}

func openGoPlugin(path string) (Library, error) {
	if err := Inspect(path); err != nil {
		return nil, err
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, &OSError{Op: "open", Path: path, Err: err}
	}

	return &goLibrary{path: path, plugin: p}, nil
}

func (l *goLibrary) Path() string {
	return l.path
}

func (l *goLibrary) Lookup(name string) (Symbol, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	sym, err := l.plugin.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.path)
	}
	return sym, nil
}

// Close marks the library released. The Go runtime keeps plugin code mapped
// until the process exits.
func (l *goLibrary) Close() error {
	l.closed.Store(true)
	return nil
}
