package plugintest

import (
	"errors"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/snowmerak/nativeplug/lib/dynlib"
	"github.com/snowmerak/nativeplug/lib/plugin"
)

// csumLibrary compiles example/plugins/csum/sum.c into a shared object.
func csumLibrary(t *testing.T) string {
	t.Helper()
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		t.Skipf("C plugins are not supported on %s", runtime.GOOS)
	}
	switch runtime.GOARCH {
	case "amd64", "arm64":
	default:
		t.Skipf("C plugins are not supported on %s", runtime.GOARCH)
	}
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler found")
	}

	out := filepath.Join(t.TempDir(), "csum.so")
	build(t, cc, "-shared", "-fPIC", "-o", out, filepath.Join("example", "plugins", "csum", "sum.c"))
	return out
}

func TestCPlugin_Calls(t *testing.T) {
	path := csumLibrary(t)

	var opened []*trackedLibrary
	m := plugin.NewManager(plugin.WithOpener(tracking(dynlib.Dlopen(), &opened)))
	defer m.Close()

	if err := m.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ctx := plugin.NewHostContext(zerolog.Nop(), nil)

	names := []string{}
	for _, f := range m.Functions() {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"cmax", "csum"}) {
		t.Fatalf("Expected cmax and csum to be registered through the callback, got %v", names)
	}

	tests := []struct {
		name string
		args []plugin.Value
		want float64
	}{
		{"csum", plugin.Values(1, 2), 3},
		{"csum", nil, 0},
		{"cmax", plugin.Values(1, 5, 2), 5},
		{"cmax", plugin.Values(-3), -3},
	}
	for _, tt := range tests {
		out, err := m.Call(ctx, tt.name, tt.args)
		if err != nil {
			t.Fatalf("%s(%v) failed: %v", tt.name, tt.args, err)
		}
		if len(out) != 1 || out[0].Number != tt.want {
			t.Errorf("%s(%v): expected [%g], got %v", tt.name, tt.args, tt.want, out)
		}
	}

	_, err := m.Call(ctx, "cmax", nil)
	if !errors.Is(err, plugin.ErrInvocationFailed) {
		t.Fatalf("Expected cmax of nothing to fail, got: %v", err)
	}
	if err.Error() != "cmax returned status 1" {
		t.Errorf("Unexpected failure text: %q", err.Error())
	}
}

func TestCPlugin_UnloadCloses(t *testing.T) {
	path := csumLibrary(t)

	var opened []*trackedLibrary
	m := plugin.NewManager(plugin.WithOpener(tracking(dynlib.Dlopen(), &opened)))
	defer m.Close()

	if err := m.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(opened) != 1 {
		t.Fatalf("Expected one opened library, got %d", len(opened))
	}
	lib := opened[0]

	m.Unload()

	if got := lib.closes.Load(); got != 1 {
		t.Fatalf("Expected one close after unload, got %d", got)
	}
	if err := lib.lastCloseErr(); err != nil {
		t.Errorf("dlclose failed: %v", err)
	}
	if _, err := lib.Lookup(plugin.DeclarationSymbol); !errors.Is(err, dynlib.ErrClosed) {
		t.Errorf("Lookup after unload should report a closed library, got: %v", err)
	}
	if _, err := m.Call(plugin.NewHostContext(zerolog.Nop(), nil), "csum", nil); !errors.Is(err, plugin.ErrFunctionNotFound) {
		t.Errorf("Expected NotFound after unload, got: %v", err)
	}
}

func TestCPlugin_ReloadAfterUnload(t *testing.T) {
	path := csumLibrary(t)

	m := plugin.NewManager(plugin.WithOpener(dynlib.Dlopen()))
	defer m.Close()

	for i := 0; i < 2; i++ {
		if err := m.Load(path); err != nil {
			t.Fatalf("Load %d failed: %v", i, err)
		}
		out, err := m.Call(plugin.NewHostContext(zerolog.Nop(), nil), "csum", plugin.Values(2, 2))
		if err != nil || out[0].Number != 4 {
			t.Fatalf("Call %d: expected [4], got %v, %v", i, out, err)
		}
		m.Unload()
	}
}
