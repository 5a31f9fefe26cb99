//go:build !((darwin || linux || freebsd) && (amd64 || arm64))

package plugin

import (
	"fmt"

	"github.com/snowmerak/nativeplug/lib/dynlib"
)

func readCDeclaration(addr dynlib.Address) (*Declaration, error) {
	return nil, fmt.Errorf("%w: C ABI plugins are not supported on this platform", ErrInvalidDeclaration)
}
