package plugin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// Manager owns the table of functions published by loaded plugins.
// It is safe for concurrent use. Independent managers share no state.
type Manager struct {
	opener dynlib.Opener
	logger zerolog.Logger

	mu        sync.RWMutex
	functions map[string]*FunctionProxy

	closed atomic.Bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithOpener sets the backend used to open libraries.
func WithOpener(opener dynlib.Opener) ManagerOption {
	return func(m *Manager) {
		m.opener = opener
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager. Without options it opens Go plugins and
// discards logs.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		opener:    dynlib.GoPlugin(),
		logger:    zerolog.Nop(),
		functions: make(map[string]*FunctionProxy),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Load opens the library at path, runs its registration entry point and
// publishes the registered functions. On error nothing is published.
//
// The library must have been built against this package's Declaration
// layout. A library that only pretends to conform is undefined behaviour
// the host cannot detect.
//
// The entry point runs without any table lock held.
func (m *Manager) Load(path string) error {
	if m.closed.Load() {
		return ErrManagerClosed
	}

	module, err := m.opener.Open(path)
	if err != nil {
		return &LoadError{Kind: classifyOpenError(err), Path: path, Err: err}
	}

	lib, err := newLibrary(module, m.logger)
	if err != nil {
		if cerr := module.Close(); cerr != nil {
			m.logger.Warn().Err(cerr).Str("path", path).Msg("failed to close library")
		}
		return &LoadError{Kind: LoadOSFailure, Path: path, Err: err}
	}
	// The loader's own reference. Proxies keep the library alive past this.
	defer lib.release()

	lib.logger.Debug().Msg("library opened")

	sym, err := lib.lookup(DeclarationSymbol)
	if err != nil {
		return &LoadError{Kind: LoadSymbolNotFound, Path: path, Err: err}
	}

	decl, err := resolveDeclaration(sym)
	if err != nil {
		kind := LoadInvalidFormat
		if errors.Is(err, ErrRegistrationFailed) {
			kind = LoadRegistrationFailed
			lib.logger.Error().Err(err).Msg("plugin declaration failed")
		}
		return &LoadError{Kind: kind, Path: path, Err: err}
	}
	if err := decl.check(); err != nil {
		kind := LoadInvalidFormat
		if errors.Is(err, ErrABIMismatch) {
			kind = LoadABIMismatch
		}
		return &LoadError{Kind: kind, Path: path, Err: err}
	}
	lib.declare(decl)
	lib.logger.Debug().Str("plugin", decl.Name).Uint32("abi_version", decl.ABIVersion).Msg("declaration resolved")

	reg := newRegistrar(lib, lib.logger)
	if err := reg.run(decl.Register); err != nil {
		reg.discard()
		lib.logger.Error().Err(err).Msg("plugin registration failed")
		return &LoadError{Kind: LoadRegistrationFailed, Path: path, Err: err}
	}
	functions := reg.seal()

	if err := m.merge(functions); err != nil {
		return err
	}

	lib.logger.Info().
		Str("plugin", decl.Name).
		Str("version", decl.Version).
		Int("functions", len(functions)).
		Msg("plugin loaded")
	return nil
}

// merge publishes functions atomically with respect to Call.
func (m *Manager) merge(functions map[string]*FunctionProxy) error {
	replaced := make([]*FunctionProxy, 0)

	m.mu.Lock()
	if m.closed.Load() {
		m.mu.Unlock()
		for _, p := range functions {
			p.release()
		}
		return ErrManagerClosed
	}
	for name, p := range functions {
		if prev, ok := m.functions[name]; ok {
			replaced = append(replaced, prev)
		}
		m.functions[name] = p
	}
	m.mu.Unlock()

	for _, p := range replaced {
		m.logger.Debug().
			Str("function", p.Name()).
			Str("library_id", p.LibraryID().String()).
			Msg("function overwritten by a later load")
		p.release()
	}
	return nil
}

// Call invokes the function registered under name. The table lock is held
// only for the lookup; the call holds its own library reference.
func (m *Manager) Call(ctx Context, name string, args []Value) ([]Value, error) {
	m.mu.RLock()
	p, ok := m.functions[name]
	if ok {
		p.lib.acquire()
	}
	m.mu.RUnlock()

	if !ok {
		return nil, NotFound(name)
	}
	defer p.lib.release()

	return m.invoke(ctx, p, args)
}

func (m *Manager) invoke(ctx Context, p *FunctionProxy, args []Value) (out []Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error().Str("function", p.Name()).Interface("panic", rec).Msg("plugin function panicked")
			out = nil
			err = &InvocationError{Kind: InvocationFailed, Name: p.Name(), Message: fmt.Sprintf("panic: %v", rec)}
		}
	}()

	out, err = p.Call(ctx, args)
	if err == nil {
		return out, nil
	}

	var ie *InvocationError
	if errors.As(err, &ie) {
		return nil, err
	}
	return nil, &InvocationError{Kind: InvocationFailed, Name: p.Name(), Message: err.Error()}
}

// Unload drops every function. Libraries whose last reference was held by
// the table are closed; calls already in flight finish first.
func (m *Manager) Unload() {
	m.mu.Lock()
	dropped := m.functions
	m.functions = make(map[string]*FunctionProxy)
	m.mu.Unlock()

	for _, p := range dropped {
		p.release()
	}

	m.logger.Debug().Int("functions", len(dropped)).Msg("plugins unloaded")
}

func classifyOpenError(err error) LoadErrorKind {
	switch {
	case errors.Is(err, dynlib.ErrNotFound):
		return LoadNotFound
	case errors.Is(err, dynlib.ErrInvalidFormat):
		return LoadInvalidFormat
	case errors.Is(err, dynlib.ErrSymbolNotFound):
		return LoadSymbolNotFound
	default:
		return LoadOSFailure
	}
}
