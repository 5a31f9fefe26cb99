package plugintest

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// moduleRoot returns the directory holding go.mod.
func moduleRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "..", ".."))
	if err != nil {
		t.Fatalf("Failed to resolve module root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("go.mod not found in %s: %v", root, err)
	}
	return root
}

// build runs name with args in the module root and fails the test on error.
func build(t *testing.T, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = moduleRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, out)
	}
}

// trackedLibrary counts Close calls on a real library.
type trackedLibrary struct {
	dynlib.Library
	closes atomic.Int32

	mu       sync.Mutex
	closeErr error
}

func (l *trackedLibrary) Close() error {
	l.closes.Add(1)
	err := l.Library.Close()

	l.mu.Lock()
	l.closeErr = err
	l.mu.Unlock()
	return err
}

func (l *trackedLibrary) lastCloseErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeErr
}

// tracking wraps opener and records every library it hands out.
func tracking(opener dynlib.Opener, opened *[]*trackedLibrary) dynlib.Opener {
	return dynlib.OpenerFunc(func(path string) (dynlib.Library, error) {
		lib, err := opener.Open(path)
		if err != nil {
			return nil, err
		}
		tracked := &trackedLibrary{Library: lib}
		*opened = append(*opened, tracked)
		return tracked, nil
	})
}
