// Package dynlib opens dynamic libraries and resolves the symbols they export.
//
// Three backends implement Opener:
//
//   - GoPlugin: Go plugins built with -buildmode=plugin, through the standard
//     library plugin package. The Go runtime never unmaps a plugin, so Close
//     only marks the library as released.
//   - Dlopen: C ABI shared objects through purego. Close unmaps the module.
//   - Static: libraries compiled into the host binary, keyed by a pseudo path.
//
// Backends report failures with the sentinel errors below so callers can
// classify them with errors.Is.
package dynlib

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no library exists at the given path.
	ErrNotFound = errors.New("library not found")

	// ErrInvalidFormat is returned when the path is not a loadable shared object.
	ErrInvalidFormat = errors.New("invalid library format")

	// ErrSymbolNotFound is returned by Lookup when the library does not export the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrUnsupported is returned by backends that cannot run on this platform.
	ErrUnsupported = errors.New("dynamic loading is not supported on this platform")

	// ErrClosed is returned by Lookup after Close.
	ErrClosed = errors.New("library is closed")
)

// Symbol is an exported variable or function. Go plugins return the value
// stored by the plugin package; C libraries return an Address.
type Symbol any

// Address is the raw location of a symbol inside a C ABI library.
type Address uintptr

// Library is one opened dynamic module.
type Library interface {
	// Path returns the path the library was opened from.
	Path() string
	// Lookup resolves an exported symbol by name.
	Lookup(name string) (Symbol, error)
	// Close releases the module. It is called at most once by well-behaved callers
	// and must be safe to call again.
	Close() error
}

// Opener opens libraries by path.
type Opener interface {
	Open(path string) (Library, error)
}

// OpenerFunc is a convenience type for converting functions to Opener
type OpenerFunc func(path string) (Library, error)

// Open implements Opener interface
func (f OpenerFunc) Open(path string) (Library, error) {
	return f(path)
}

// OSError carries a platform failure that has no more specific classification.
type OSError struct {
	Op   string
	Path string
	Err  error
}

func (e *OSError) Error() string {
	return fmt.Sprintf("dynlib: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OSError) Unwrap() error {
	return e.Err
}
