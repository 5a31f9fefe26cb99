package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrLibraryNotFound matches load failures for paths that do not exist.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrInvalidFormat matches load failures for files that are not loadable plugins.
	ErrInvalidFormat = errors.New("invalid plugin format")
	// ErrOSFailure matches load failures reported by the platform loader.
	ErrOSFailure = errors.New("platform loader failure")
	// ErrSymbolNotFound matches plugins without the declaration symbol.
	ErrSymbolNotFound = errors.New("declaration symbol not found")
	// ErrABIMismatch matches plugins built against another declaration layout.
	ErrABIMismatch = errors.New("plugin ABI mismatch")
	// ErrRegistrationFailed matches plugins whose entry point panicked.
	ErrRegistrationFailed = errors.New("plugin registration failed")

	// ErrInvalidDeclaration is wrapped by InvalidFormat load errors caused by a malformed declaration.
	ErrInvalidDeclaration = errors.New("invalid plugin declaration")

	// ErrFunctionNotFound matches calls to names nothing registered.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrInvocationFailed matches calls whose function reported a failure.
	ErrInvocationFailed = errors.New("invocation failed")

	// ErrManagerClosed is returned by Load after Close.
	ErrManagerClosed = errors.New("plugin manager is closed")
	// ErrLibraryNotLoaded is returned by UnloadLibrary for unknown library ids.
	ErrLibraryNotLoaded = errors.New("library not loaded")
)

// LoadErrorKind classifies load failures.
type LoadErrorKind int

const (
	LoadNotFound LoadErrorKind = iota + 1
	LoadInvalidFormat
	LoadOSFailure
	LoadSymbolNotFound
	LoadABIMismatch
	LoadRegistrationFailed
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "not found"
	case LoadInvalidFormat:
		return "invalid format"
	case LoadOSFailure:
		return "os failure"
	case LoadSymbolNotFound:
		return "symbol not found"
	case LoadABIMismatch:
		return "abi mismatch"
	case LoadRegistrationFailed:
		return "registration failed"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

func (k LoadErrorKind) sentinel() error {
	switch k {
	case LoadNotFound:
		return ErrLibraryNotFound
	case LoadInvalidFormat:
		return ErrInvalidFormat
	case LoadOSFailure:
		return ErrOSFailure
	case LoadSymbolNotFound:
		return ErrSymbolNotFound
	case LoadABIMismatch:
		return ErrABIMismatch
	case LoadRegistrationFailed:
		return ErrRegistrationFailed
	default:
		return nil
	}
}

// LoadError is returned by Manager.Load. The function table is unchanged
// whenever a LoadError is returned.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plugin: load %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("plugin: load %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *LoadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// InvocationErrorKind classifies call failures.
type InvocationErrorKind int

const (
	InvocationNotFound InvocationErrorKind = iota + 1
	InvocationFailed
)

func (k InvocationErrorKind) String() string {
	switch k {
	case InvocationNotFound:
		return "not found"
	case InvocationFailed:
		return "failed"
	default:
		return fmt.Sprintf("InvocationErrorKind(%d)", int(k))
	}
}

// InvocationError is returned by Manager.Call.
type InvocationError struct {
	Kind InvocationErrorKind
	// Name is the function that was called.
	Name string
	// Message is the plugin's failure text, passed through verbatim.
	Message string
}

func (e *InvocationError) Error() string {
	if e.Kind == InvocationNotFound {
		return fmt.Sprintf("%q not found", e.Name)
	}
	return e.Message
}

// Is reports whether target is the sentinel for e.Kind.
func (e *InvocationError) Is(target error) bool {
	switch e.Kind {
	case InvocationNotFound:
		return target == ErrFunctionNotFound
	case InvocationFailed:
		return target == ErrInvocationFailed
	default:
		return false
	}
}

// NotFound builds the error returned for unknown function names.
func NotFound(name string) *InvocationError {
	return &InvocationError{Kind: InvocationNotFound, Name: name}
}

// Failed builds a failure carrying msg verbatim. Plugins may return it from
// Callable.Call.
func Failed(msg string) *InvocationError {
	return &InvocationError{Kind: InvocationFailed, Message: msg}
}

// Failedf is Failed with formatting.
func Failedf(format string, args ...any) *InvocationError {
	return Failed(fmt.Sprintf(format, args...))
}
