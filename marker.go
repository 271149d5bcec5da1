package autoinject

import (
	"fmt"
	"reflect"
)

// typeResolver resolves a type reference against a registry.
type typeResolver struct {
	name    string
	resolve func(types *TypeRegistry) (reflect.Type, error)
}

func staticType(t reflect.Type) typeResolver {
	return typeResolver{
		name: TypeName(t),
		resolve: func(*TypeRegistry) (reflect.Type, error) {
			return t, nil
		},
	}
}

func namedType(name string) typeResolver {
	return typeResolver{
		name: name,
		resolve: func(types *TypeRegistry) (reflect.Type, error) {
			if types == nil {
				return nil, TypeResolutionError{TypeName: name, Cause: ErrTypeNotFound}
			}
			return types.Lookup(name)
		},
	}
}

// Marker is the metadata attached to a catalog entry that asks for the type
// to be registered. It carries exactly one lifetime and zero or more interfaces.
type Marker struct {
	Lifetime ServiceLifetime

	interfaces  []typeResolver
	constructor any
	invalid     error
}

// Mark creates a Marker with the given lifetime.
//
// Example:
//
//	autoinject.Mark(autoinject.Singleton, autoinject.As(new(UserReader)))
func Mark(lifetime ServiceLifetime, opts ...MarkOption) Marker {
	m := Marker{Lifetime: lifetime}
	for _, opt := range opts {
		if opt != nil {
			opt.applyMarkOption(&m)
		}
	}
	return m
}

// InterfaceNames returns the names of the interfaces the marker binds.
func (m Marker) InterfaceNames() []string {
	names := make([]string, len(m.interfaces))
	for i, iface := range m.interfaces {
		names[i] = iface.name
	}
	return names
}

// A MarkOption modifies a Marker.
type MarkOption interface {
	applyMarkOption(*Marker)
}

type markOptionFunc func(*Marker)

func (f markOptionFunc) applyMarkOption(m *Marker) { f(m) }

// As binds the component to the interfaces pointed to by each argument.
// Each argument must be a pointer to an interface, as in fx.As.
//
// Example:
//
//	autoinject.Component[*UserService](autoinject.Scoped,
//	    autoinject.As(new(UserReader), new(UserWriter)),
//	)
func As(interfaces ...any) MarkOption {
	return markOptionFunc(func(m *Marker) {
		for _, i := range interfaces {
			t := reflect.TypeOf(i)
			switch {
			case t == nil:
				m.invalid = fmt.Errorf("invalid As(nil): %w", ErrNotInterface)
				return
			case t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface:
				m.invalid = fmt.Errorf("invalid As(%s): argument must be a pointer to an interface: %w",
					TypeName(t), ErrNotInterface)
				return
			}
			m.interfaces = append(m.interfaces, staticType(t.Elem()))
		}
	})
}

// AsType binds the component to the given interface types.
func AsType(types ...reflect.Type) MarkOption {
	return markOptionFunc(func(m *Marker) {
		for _, t := range types {
			m.interfaces = append(m.interfaces, staticType(t))
		}
	})
}

// AsNamed binds the component to interfaces looked up by full name in the
// module's TypeRegistry.
func AsNamed(names ...string) MarkOption {
	return markOptionFunc(func(m *Marker) {
		for _, name := range names {
			m.interfaces = append(m.interfaces, namedType(name))
		}
	})
}

// WithConstructor sets the function used to build the component. The function
// must return the component type, optionally followed by an error; its
// parameters are resolved by the container.
func WithConstructor(constructor any) MarkOption {
	return markOptionFunc(func(m *Marker) {
		m.constructor = constructor
	})
}

// Declaration describes one component found by a scan.
type Declaration struct {
	// Type is the concrete component type.
	Type reflect.Type

	// Lifetime is the declared lifetime.
	Lifetime ServiceLifetime

	// Interfaces lists the interface types bound to Type, without duplicates.
	Interfaces []reflect.Type

	// Constructor builds Type. It is a function returning Type and an optional error.
	Constructor reflect.Value
}

// Name returns the full name of the component type.
func (d Declaration) Name() string {
	return TypeName(d.Type)
}

// declare turns a resolved catalog entry into a Declaration.
func declare(t reflect.Type, marker Marker, types *TypeRegistry) (Declaration, error) {
	name := TypeName(t)

	if marker.invalid != nil {
		return Declaration{}, ConfigurationError{TypeName: name, Cause: marker.invalid}
	}

	if isAbstract(t) {
		return Declaration{}, ConfigurationError{TypeName: name, Cause: ErrNotInstantiable}
	}

	decl := Declaration{
		Type:     t,
		Lifetime: marker.Lifetime,
	}

	if marker.constructor != nil {
		ctor, err := validateConstructor(marker.constructor, t)
		if err != nil {
			return Declaration{}, ConfigurationError{TypeName: name, Cause: err}
		}
		decl.Constructor = ctor
	} else {
		if !isInstantiable(t) {
			return Declaration{}, ConfigurationError{TypeName: name, Cause: ErrNotInstantiable}
		}
		decl.Constructor = defaultConstructor(t)
	}

	seen := make(map[reflect.Type]struct{}, len(marker.interfaces))
	for _, ref := range marker.interfaces {
		iface, err := ref.resolve(types)
		if err != nil {
			return Declaration{}, err
		}

		if iface == nil || iface.Kind() != reflect.Interface {
			return Declaration{}, ConfigurationError{
				TypeName: name,
				Cause:    fmt.Errorf("%w: %s", ErrNotInterface, TypeName(iface)),
			}
		}

		if !t.Implements(iface) {
			return Declaration{}, ConfigurationError{
				TypeName: name,
				Cause:    fmt.Errorf("%w: %s", ErrNotImplemented, TypeName(iface)),
			}
		}

		if _, dup := seen[iface]; dup {
			continue
		}
		seen[iface] = struct{}{}
		decl.Interfaces = append(decl.Interfaces, iface)
	}

	return decl, nil
}
