package plugin

import (
	"fmt"

	"github.com/snowmerak/nativeplug/lib/dynlib"
)

// DeclarationSymbol is the exported symbol every plugin must define.
const DeclarationSymbol = "PluginDeclaration"

// ABIVersion is the declaration layout understood by this host. Plugins
// copy it into their Declaration at build time.
const ABIVersion uint32 = 1

// Declaration describes a plugin. A Go plugin exports it as
//
//	var PluginDeclaration = plugin.Declaration{
//		ABIVersion: plugin.ABIVersion,
//		Name:       "sum",
//		Version:    "v1.0.0",
//		Register:   register,
//	}
type Declaration struct {
	ABIVersion uint32
	Name       string
	Version    string
	Register   RegisterFunc
}

// resolveDeclaration interprets the declaration symbol. Go plugins hand back
// a pointer to the exported variable; C libraries hand back its address.
func resolveDeclaration(sym dynlib.Symbol) (*Declaration, error) {
	var decl *Declaration

	switch v := sym.(type) {
	case *Declaration:
		decl = v
	case Declaration:
		decl = &v
	case func() *Declaration:
		if v != nil {
			d, err := constructDeclaration(v)
			if err != nil {
				return nil, err
			}
			decl = d
		}
	case *func() *Declaration:
		if v != nil && *v != nil {
			d, err := constructDeclaration(*v)
			if err != nil {
				return nil, err
			}
			decl = d
		}
	case dynlib.Address:
		d, err := readCDeclaration(v)
		if err != nil {
			return nil, err
		}
		decl = d
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrInvalidDeclaration, DeclarationSymbol, sym)
	}

	if decl == nil {
		return nil, fmt.Errorf("%w: %s is nil", ErrInvalidDeclaration, DeclarationSymbol)
	}

	// Copy so a plugin cannot mutate the record after it was checked.
	out := *decl
	return &out, nil
}

// constructDeclaration runs a plugin supplied constructor. A panic in it
// is reported as a registration failure.
func constructDeclaration(ctor func() *Declaration) (decl *Declaration, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			decl = nil
			err = fmt.Errorf("%w: %s constructor panicked: %v", ErrRegistrationFailed, DeclarationSymbol, rec)
		}
	}()

	return ctor(), nil
}

// check validates the declaration before its entry point is invoked.
func (d *Declaration) check() error {
	if d.ABIVersion != ABIVersion {
		return fmt.Errorf("%w: plugin declares ABI %d, host expects %d", ErrABIMismatch, d.ABIVersion, ABIVersion)
	}
	if d.Register == nil {
		return fmt.Errorf("%w: no registration entry point", ErrInvalidDeclaration)
	}
	return nil
}
