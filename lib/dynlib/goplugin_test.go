package dynlib

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestGoPlugin_MissingFile(t *testing.T) {
	_, err := GoPlugin().Open(filepath.Join(t.TempDir(), "missing.so"))
	if err == nil {
		t.Fatal("Expected error for missing plugin")
	}
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Expected ErrNotFound or ErrUnsupported, got: %v", err)
	}
}
