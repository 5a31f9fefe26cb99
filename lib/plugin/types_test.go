package plugin

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Value{Number: 3}, "3"},
		{Value{Number: -0.5}, "-0.5"},
		{Value{Number: 1e21}, "1e+21"},
		{Value{Number: math.Inf(1)}, "+Inf"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestValues_RoundTrip(t *testing.T) {
	numbers := []float64{1, 2.5, -3}
	if got := Float64s(Values(numbers...)); !reflect.DeepEqual(got, numbers) {
		t.Errorf("Expected %v, got %v", numbers, got)
	}
	if got := Values(); len(got) != 0 {
		t.Errorf("Expected empty slice, got %v", got)
	}
}

func TestCallable_Help(t *testing.T) {
	if h := CallableFunc(sum).Help(); h != "" {
		t.Errorf("CallableFunc should have no help, got %q", h)
	}

	c := NewCallable(sum, "adds numbers")
	if c.Help() != "adds numbers" {
		t.Errorf("Unexpected help: %q", c.Help())
	}
	out, err := c.Call(newTestContext(), Values(2, 3))
	if err != nil || out[0].Number != 5 {
		t.Errorf("Expected [5], got %v, %v", out, err)
	}
}

func TestHostContext(t *testing.T) {
	config := map[string]string{"region": "eu"}
	ctx := NewHostContext(*newTestContext().Logger(), config)
	config["region"] = "us"

	v, ok := ctx.Config("region")
	if !ok || v != "eu" {
		t.Errorf("HostContext should hold a copy of its config, got %q", v)
	}
	if _, ok := ctx.Config("missing"); ok {
		t.Error("Unexpected value for missing key")
	}
}

func TestHostContext_LoggerChains(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewHostContext(zerolog.New(&buf), nil)

	ctx.Logger().Info().Str("function", "sum").Msg("called")

	if !strings.Contains(buf.String(), `"function":"sum"`) {
		t.Errorf("Expected the event to reach the host writer, got %q", buf.String())
	}
}
