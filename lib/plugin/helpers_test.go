package plugin

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// testContext is a minimal Context for tests.
type testContext struct {
	logger zerolog.Logger
	config map[string]string
}

func (c *testContext) Logger() *zerolog.Logger { return &c.logger }

func (c *testContext) Config(key string) (string, bool) {
	v, ok := c.config[key]
	return v, ok
}

func newTestContext() Context {
	return &testContext{logger: zerolog.Nop(), config: map[string]string{}}
}

// newTestManager returns a manager backed by a static library table.
func newTestManager(t testing.TB) (*Manager, *dynlib.Static) {
	t.Helper()
	static := dynlib.NewStatic()
	m := NewManager(WithOpener(static))
	t.Cleanup(func() { m.Close() })
	return m, static
}

// addPlugin registers a static library whose declaration runs register.
func addPlugin(static *dynlib.Static, path string, register RegisterFunc) {
	static.Add(path, map[string]dynlib.Symbol{
		DeclarationSymbol: &Declaration{
			ABIVersion: ABIVersion,
			Name:       path,
			Version:    "v1.0.0",
			Register:   register,
		},
	})
}

func sum(_ Context, args []Value) ([]Value, error) {
	var total float64
	for _, a := range args {
		total += a.Number
	}
	return []Value{{Number: total}}, nil
}

func constant(n float64) Callable {
	return CallableFunc(func(Context, []Value) ([]Value, error) {
		return []Value{{Number: n}}, nil
	})
}

func registerSum(r Registrar) {
	r.Register("sum", NewCallable(sum, "sum(a, b, ...) adds all arguments"))
}

func mustLoad(t testing.TB, m *Manager, path string) {
	t.Helper()
	if err := m.Load(path); err != nil {
		t.Fatalf("Load(%q) failed: %v", path, err)
	}
}

func requireNotFound(t testing.TB, err error, name string) {
	t.Helper()
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Fatalf("Expected NotFound for %q, got: %v", name, err)
	}
	var ie *InvocationError
	if !errors.As(err, &ie) || ie.Name != name {
		t.Fatalf("Expected InvocationError naming %q, got: %#v", name, err)
	}
}

// closeRecorder is a dynlib.Library whose Close result is configurable.
type closeRecorder struct {
	path    string
	symbols map[string]dynlib.Symbol
	closeFn func() error
	closes  int
}

func (l *closeRecorder) Path() string { return l.path }

func (l *closeRecorder) Lookup(name string) (dynlib.Symbol, error) {
	sym, ok := l.symbols[name]
	if !ok {
		return nil, dynlib.ErrSymbolNotFound
	}
	return sym, nil
}

func (l *closeRecorder) Close() error {
	l.closes++
	if l.closeFn != nil {
		return l.closeFn()
	}
	return nil
}
