package plugin

import (
	"sync"

	"github.com/google/uuid"
)

// FunctionProxy binds a Callable to the library that supplied its code.
// Holding the proxy keeps the library mapped.
type FunctionProxy struct {
	name     string
	callable Callable
	lib      *Library
	once     sync.Once
}

func newFunctionProxy(name string, c Callable, lib *Library) *FunctionProxy {
	return &FunctionProxy{
		name:     name,
		callable: c,
		lib:      lib.acquire(),
	}
}

// Name returns the name the function was registered under.
func (p *FunctionProxy) Name() string {
	return p.name
}

// LibraryID returns the id of the owning library.
func (p *FunctionProxy) LibraryID() uuid.UUID {
	return p.lib.ID()
}

// Call implements Callable interface
func (p *FunctionProxy) Call(ctx Context, args []Value) ([]Value, error) {
	return p.callable.Call(ctx, args)
}

// Help implements Callable interface
func (p *FunctionProxy) Help() string {
	return p.callable.Help()
}

// release drops the proxy's library reference. Later calls are no-ops.
func (p *FunctionProxy) release() {
	p.once.Do(p.lib.release)
}
