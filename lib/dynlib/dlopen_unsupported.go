//go:build !(darwin || linux || freebsd)

package dynlib

import "fmt"

// Dlopen returns an Opener that fails on platforms without dlopen.
func Dlopen() Opener {
	return OpenerFunc(func(path string) (Library, error) {
		return nil, fmt.Errorf("%w: cannot dlopen %s", ErrUnsupported, path)
	})
}
