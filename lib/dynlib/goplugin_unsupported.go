//go:build !((linux || darwin || freebsd) && cgo)

package dynlib

import "fmt"

// GoPlugin returns an Opener that fails: Go plugins need cgo on Linux, macOS or FreeBSD.
func GoPlugin() Opener {
	return OpenerFunc(func(path string) (Library, error) {
		return nil, fmt.Errorf("%w: cannot open Go plugin %s", ErrUnsupported, path)
	})
}
