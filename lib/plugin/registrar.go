package plugin

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// registrar collects the functions of one registration call. Nothing it
// holds is visible to callers until the manager merges it.
type registrar struct {
	lib    *Library
	logger zerolog.Logger

	mu        sync.Mutex
	functions map[string]*FunctionProxy
	sealed    bool
}

func newRegistrar(lib *Library, logger zerolog.Logger) *registrar {
	return &registrar{
		lib:       lib,
		logger:    logger,
		functions: make(map[string]*FunctionProxy),
	}
}

// Register implements Registrar interface
func (r *registrar) Register(name string, c Callable) {
	if name == "" || c == nil {
		r.logger.Warn().Str("function", name).Msg("ignoring registration without name or function")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		r.logger.Warn().Str("function", name).Msg("ignoring registration after the entry point returned")
		return
	}

	if prev, ok := r.functions[name]; ok {
		prev.release()
		r.logger.Debug().Str("function", name).Msg("function registered twice, keeping the last one")
	}
	r.functions[name] = newFunctionProxy(name, c, r.lib)
	r.logger.Debug().Str("function", name).Msg("function registered")
}

// run invokes the plugin entry point once. A panic in plugin code is
// turned into an error.
func (r *registrar) run(register RegisterFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: entry point panicked: %v", ErrRegistrationFailed, rec)
		}
	}()

	register(r)
	return nil
}

// seal stops further registrations and hands over the collected proxies.
func (r *registrar) seal() map[string]*FunctionProxy {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
	functions := r.functions
	r.functions = nil
	return functions
}

// discard seals the registrar and drops everything it collected.
func (r *registrar) discard() {
	for _, p := range r.seal() {
		p.release()
	}
}
