// Package gen finds autoinject directives in Go source and writes the
// catalog they describe as Go code.
//
// A directive is a line comment on a type declaration:
//
//	//autoinject:singleton as=UserReader,io.Closer ctor=NewUserService
//	type UserService struct{ ... }
//
// The word after the colon is the lifetime. The optional fields are:
//
//	as=A,b.B   interfaces to bind, unqualified or qualified by an import name
//	ctor=Name  constructor function; defaults to New<Type> when one exists
//	value      register the type itself instead of a pointer to it
package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/autoinject"
)

const directivePrefix = "//autoinject:"

// ErrInvalidDirective is returned for directives that cannot be parsed.
var ErrInvalidDirective = errors.New("invalid autoinject directive")

// Directive is one parsed autoinject comment.
type Directive struct {
	Lifetime    autoinject.ServiceLifetime
	As          []string
	Constructor string
	Value       bool
}

// ParseDirective parses a single comment line. ok is false when the line is
// not an autoinject directive.
func ParseDirective(line string) (d Directive, ok bool, err error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), directivePrefix)
	if !found {
		return Directive{}, false, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, true, fmt.Errorf("%w: missing lifetime", ErrInvalidDirective)
	}

	d.Lifetime, err = autoinject.ParseLifetime(fields[0])
	if err != nil {
		return Directive{}, true, fmt.Errorf("%w: %w", ErrInvalidDirective, err)
	}

	for _, field := range fields[1:] {
		key, value, hasValue := strings.Cut(field, "=")
		switch {
		case key == "as" && hasValue:
			for _, name := range strings.Split(value, ",") {
				if name = strings.TrimSpace(name); name != "" {
					d.As = append(d.As, name)
				}
			}
		case key == "ctor" && hasValue && value != "":
			d.Constructor = value
		case key == "value" && !hasValue:
			d.Value = true
		default:
			return Directive{}, true, fmt.Errorf("%w: unknown field %q", ErrInvalidDirective, field)
		}
	}

	return d, true, nil
}
