package plugin

import (
	"fmt"
)

// Caller is anything that dispatches named calls, typically *Manager.
type Caller interface {
	Call(ctx Context, name string, args []Value) ([]Value, error)
}

// Serializer defines the functions for converting typed requests into call
// arguments and call results into typed responses.
type Serializer[Req, Resp any] struct {
	MarshalRequest    func(Req) ([]Value, error)
	UnmarshalResponse func([]Value) (Resp, error)
}

// Adapter provides a typed view over a Caller.
type Adapter[Req, Resp any] struct {
	caller     Caller
	serializer Serializer[Req, Resp]
}

// NewAdapter creates a new generic adapter with a given caller and serializer.
func NewAdapter[Req, Resp any](caller Caller, serializer Serializer[Req, Resp]) *Adapter[Req, Resp] {
	return &Adapter[Req, Resp]{
		caller:     caller,
		serializer: serializer,
	}
}

// Call converts request, invokes name and converts the result.
func (a *Adapter[Req, Resp]) Call(ctx Context, name string, request Req) (Resp, error) {
	var zeroResp Resp

	args, err := a.serializer.MarshalRequest(request)
	if err != nil {
		return zeroResp, fmt.Errorf("adapter: failed to marshal request for %s: %w", name, err)
	}

	// Call errors are already InvocationErrors; pass them through untouched.
	out, err := a.caller.Call(ctx, name, args)
	if err != nil {
		return zeroResp, err
	}

	resp, err := a.serializer.UnmarshalResponse(out)
	if err != nil {
		return zeroResp, fmt.Errorf("adapter: failed to unmarshal response for %s: %w", name, err)
	}

	return resp, nil
}

// NewFloat64Adapter creates an Adapter for functions taking numbers and
// returning exactly one number.
func NewFloat64Adapter(caller Caller) *Adapter[[]float64, float64] {
	serializer := Serializer[[]float64, float64]{
		MarshalRequest: func(req []float64) ([]Value, error) {
			return Values(req...), nil
		},
		UnmarshalResponse: func(out []Value) (float64, error) {
			if len(out) != 1 {
				return 0, fmt.Errorf("expected 1 result, got %d", len(out))
			}
			return out[0].Number, nil
		},
	}
	return NewAdapter(caller, serializer)
}
