//go:build darwin || linux || freebsd

package dynlib

import (
	"fmt"
	"sync/atomic"

	"github.com/ebitengine/purego"
)

// Dlopen returns an Opener for C ABI shared objects. Libraries are opened
// with RTLD_NOW|RTLD_LOCAL and unmapped by Close.
func Dlopen() Opener {
	return OpenerFunc(openC)
}

type cLibrary struct {
	path   string
	handle uintptr
	closed atomic.Bool
}

func openC(path string) (Library, error) {
	if err := Inspect(path); err != nil {
		return nil, err
	}

	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, &OSError{Op: "dlopen", Path: path, Err: err}
	}

	return &cLibrary{path: path, handle: h}, nil
}

func (l *cLibrary) Path() string {
	return l.path
}

func (l *cLibrary) Lookup(name string) (Symbol, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	addr, err := purego.Dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.path)
	}
	return Address(addr), nil
}

func (l *cLibrary) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := purego.Dlclose(l.handle); err != nil {
		return &OSError{Op: "dlclose", Path: l.path, Err: err}
	}
	return nil
}
