package dynlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

var objectMagics = [][]byte{
	{0x7f, 'E', 'L', 'F'},    // ELF
	{0xfe, 0xed, 0xfa, 0xce}, // Mach-O 32
	{0xfe, 0xed, 0xfa, 0xcf}, // Mach-O 64
	{0xce, 0xfa, 0xed, 0xfe}, // Mach-O 32, little endian
	{0xcf, 0xfa, 0xed, 0xfe}, // Mach-O 64, little endian
	{0xca, 0xfe, 0xba, 0xbe}, // Mach-O universal
	{'M', 'Z'},               // PE
}

// Inspect checks that path names a regular file starting with a known
// shared object header. It returns ErrNotFound, ErrInvalidFormat or an
// *OSError describing why the file cannot be loaded.
func Inspect(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return &OSError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return &OSError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return &OSError{Op: "read", Path: path, Err: err}
	}
	header = header[:n]

	for _, magic := range objectMagics {
		if bytes.HasPrefix(header, magic) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s has no shared object header", ErrInvalidFormat, path)
}

// Extensions returns the file extensions used for shared objects on this OS.
func Extensions() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{".dll"}
	case "darwin":
		return []string{".so", ".dylib"}
	default:
		return []string{".so"}
	}
}
