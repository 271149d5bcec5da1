package autoinject

import (
	"errors"
	"reflect"
)

// Scanner finds the marked components of a module.
type Scanner struct {
	opts *options
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	return &Scanner{opts: newOptions(opts)}
}

// Scan returns the declarations found in the module's catalog, in catalog order.
//
// Catalog entries whose type cannot be resolved are dropped and reported only
// to the OnTypeDropped callback and the debug log. Unmarked entries are
// skipped. Only the first marker of a type is honored, and a type declared
// twice in the same module is declared once.
//
// A marked type that cannot be instantiated is a ConfigurationError. Scan
// stops at the first such error and returns no declarations.
func (s *Scanner) Scan(module *Module) ([]Declaration, error) {
	if module == nil {
		return nil, ArgumentError{Name: "module", Cause: ErrNilArgument}
	}

	types := module.Types()
	seen := make(map[reflect.Type]struct{})

	var decls []Declaration
	for _, ref := range module.refs {
		t, err := ref.Resolve(types)
		if err != nil {
			s.drop(module, ref.Name(), err)
			continue
		}

		if len(ref.markers) == 0 {
			continue
		}

		if _, dup := seen[t]; dup {
			continue
		}

		decl, err := declare(t, ref.markers[0], types)
		if err != nil {
			var resolution TypeResolutionError
			if errors.As(err, &resolution) {
				s.drop(module, ref.Name(), err)
				continue
			}
			return nil, err
		}

		seen[t] = struct{}{}
		decls = append(decls, decl)
	}

	return decls, nil
}

func (s *Scanner) drop(module *Module, name string, err error) {
	s.opts.logger.Debug("dropped unresolvable type",
		"module", module.identity,
		"type", name,
		"error", err,
	)

	if s.opts.onTypeDropped != nil {
		s.opts.onTypeDropped(name, err)
	}
}
