// Package plugin provides core types and interfaces for the plugin system.
// This file contains the contract shared by the host and plugin binaries.
package plugin

import (
	"strconv"

	"github.com/rs/zerolog"
)

// Value is the datum exchanged with plugin functions. It holds no pointers
// so it can be copied freely across the library boundary.
type Value struct {
	Number float64
}

// String formats the value for diagnostics.
func (v Value) String() string {
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

// Values wraps plain numbers.
func Values(numbers ...float64) []Value {
	vals := make([]Value, len(numbers))
	for i, n := range numbers {
		vals[i] = Value{Number: n}
	}
	return vals
}

// Float64s unwraps values into plain numbers.
func Float64s(vals []Value) []float64 {
	numbers := make([]float64, len(vals))
	for i, v := range vals {
		numbers[i] = v.Number
	}
	return numbers
}

// Context is the set of host services handed to every plugin call.
type Context interface {
	// Logger returns the host logger scoped to the call.
	Logger() *zerolog.Logger
	// Config returns a host configuration value.
	Config(key string) (string, bool)
}

// Callable is a function exposed by a plugin.
type Callable interface {
	// Call runs the function. Errors are reported to the caller verbatim.
	Call(ctx Context, args []Value) ([]Value, error)
	// Help returns human readable usage text, or "" when there is none.
	Help() string
}

// CallableFunc is a convenience type for converting functions to Callable
type CallableFunc func(ctx Context, args []Value) ([]Value, error)

// Call implements Callable interface
func (f CallableFunc) Call(ctx Context, args []Value) ([]Value, error) {
	return f(ctx, args)
}

// Help implements Callable interface
func (f CallableFunc) Help() string {
	return ""
}

type documented struct {
	fn   CallableFunc
	help string
}

func (d documented) Call(ctx Context, args []Value) ([]Value, error) {
	return d.fn(ctx, args)
}

func (d documented) Help() string {
	return d.help
}

// NewCallable builds a Callable from fn with the given help text.
func NewCallable(fn func(ctx Context, args []Value) ([]Value, error), help string) Callable {
	return documented{fn: fn, help: help}
}

// Registrar is handed to a plugin's registration entry point. It is the only
// way a plugin publishes functions to the host.
type Registrar interface {
	// Register stores c under name. A later registration under the same name
	// replaces the earlier one.
	Register(name string, c Callable)
}

// RegisterFunc is the signature of a plugin's registration entry point.
type RegisterFunc func(r Registrar)
