//go:build (darwin || linux || freebsd) && (amd64 || arm64)

package plugin

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// cDeclaration mirrors the record a C ABI plugin exports:
//
//	struct plugin_declaration {
//		uint32_t abi_version;
//		uint32_t reserved;
//		void (*register_fn)(uintptr_t registrar, uintptr_t register_cb);
//	};
//
// register_cb has the C signature
// void (*)(uintptr_t registrar, const char *name, int32_t (*fn)(const double *args, size_t n, double *out)).
type cDeclaration struct {
	ABIVersion uint32
	_          uint32
	Register   uintptr
}

var (
	cRegistrars  sync.Map // uintptr -> Registrar
	cRegistrarID atomic.Uintptr

	cCallbackOnce sync.Once
	cCallback     uintptr
)

func registerCallback() uintptr {
	cCallbackOnce.Do(func() {
		cCallback = purego.NewCallback(func(token, name, fn uintptr) uintptr {
			r, ok := cRegistrars.Load(token)
			if !ok || fn == 0 {
				return 0
			}
			n := goString(name)
			r.(Registrar).Register(n, newCFunction(n, fn))
			return 0
		})
	})
	return cCallback
}

func readCDeclaration(addr dynlib.Address) (*Declaration, error) {
	if addr == 0 {
		return nil, fmt.Errorf("%w: %s is nil", ErrInvalidDeclaration, DeclarationSymbol)
	}

	p := uintptr(addr)
	raw := **(**cDeclaration)(unsafe.Pointer(&p))

	decl := &Declaration{ABIVersion: raw.ABIVersion}
	if raw.Register != 0 {
		entry := raw.Register
		decl.Register = func(r Registrar) {
			token := cRegistrarID.Add(1)
			cRegistrars.Store(token, r)
			defer cRegistrars.Delete(token)

			purego.SyscallN(entry, token, registerCallback())
		}
	}
	return decl, nil
}

// cFunction calls int32_t fn(const double *args, size_t n, double *out).
type cFunction struct {
	name string
	fn   func(args *float64, n uintptr, out *float64) int32
}

func newCFunction(name string, addr uintptr) *cFunction {
	f := &cFunction{name: name}
	purego.RegisterFunc(&f.fn, addr)
	return f
}

func (f *cFunction) Call(_ Context, args []Value) ([]Value, error) {
	numbers := Float64s(args)

	var first *float64
	if len(numbers) > 0 {
		first = &numbers[0]
	}

	var out float64
	status := f.fn(first, uintptr(len(numbers)), &out)
	runtime.KeepAlive(numbers)

	if status != 0 {
		return nil, Failedf("%s returned status %d", f.name, status)
	}
	return []Value{{Number: out}}, nil
}

func (f *cFunction) Help() string {
	return ""
}

// goString copies a NUL terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}

	ptr := *(**byte)(unsafe.Pointer(&p))
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}
