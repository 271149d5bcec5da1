package autoinject

import (
	"reflect"
)

// ModuleIdentity uniquely identifies a module within the process, typically
// its import path. It is only used as a Ledger key.
type ModuleIdentity string

// TypeRef is one entry of a module's type catalog.
type TypeRef struct {
	ref     typeResolver
	markers []Marker
}

// Name returns the full type name recorded in the catalog.
func (r TypeRef) Name() string {
	return r.ref.name
}

// Markers returns the markers attached to the entry.
func (r TypeRef) Markers() []Marker {
	return r.markers
}

// Resolve resolves the entry's type against types.
func (r TypeRef) Resolve(types *TypeRegistry) (reflect.Type, error) {
	t, err := r.ref.resolve(types)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, TypeResolutionError{TypeName: r.ref.name, Cause: ErrTypeNotFound}
	}
	return t, nil
}

// Module is the type catalog of one code module together with its identity.
//
// A Module is assembled with NewModule from catalog options. The catalog is
// metadata only: building a Module never runs a constructor.
//
// Example:
//
//	var Module = autoinject.NewModule("github.com/acme/app/users",
//	    autoinject.Component[*UserService](autoinject.Singleton, autoinject.As(new(UserReader))),
//	    autoinject.Component[*UserHandler](autoinject.Scoped),
//	    autoinject.Plain[*userRow](),
//	)
type Module struct {
	identity ModuleIdentity
	types    *TypeRegistry
	refs     []TypeRef
}

// ModuleOption adds entries to a module catalog or configures the module.
type ModuleOption func(*Module)

// NewModule creates a module with the given identity and catalog.
func NewModule(identity ModuleIdentity, opts ...ModuleOption) *Module {
	m := &Module{identity: identity}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Identity returns the module identity.
func (m *Module) Identity() ModuleIdentity {
	return m.identity
}

// Types returns the registry used to resolve named entries.
func (m *Module) Types() *TypeRegistry {
	if m.types == nil {
		return defaultTypes
	}
	return m.types
}

// Catalog returns a copy of the module's catalog in declaration order.
func (m *Module) Catalog() []TypeRef {
	refs := make([]TypeRef, len(m.refs))
	copy(refs, m.refs)
	return refs
}

// WithTypes sets the registry used to resolve named entries.
func WithTypes(types *TypeRegistry) ModuleOption {
	return func(m *Module) {
		m.types = types
	}
}

// Group combines several catalog options into one. Generated catalogs export
// a Group per package.
func Group(opts ...ModuleOption) ModuleOption {
	return func(m *Module) {
		for _, opt := range opts {
			if opt != nil {
				opt(m)
			}
		}
	}
}

// Component adds T to the catalog, marked with the given lifetime.
func Component[T any](lifetime ServiceLifetime, opts ...MarkOption) ModuleOption {
	return Entry(TypeOf[T](), Mark(lifetime, opts...))
}

// Plain adds T to the catalog without a marker. Scans skip it.
func Plain[T any]() ModuleOption {
	return Entry(TypeOf[T]())
}

// Entry adds t to the catalog with the given markers.
func Entry(t reflect.Type, markers ...Marker) ModuleOption {
	return func(m *Module) {
		m.refs = append(m.refs, TypeRef{ref: staticType(t), markers: markers})
	}
}

// Ref adds the type registered under name to the catalog. The name is
// resolved when the module is scanned; an unknown name drops the entry.
func Ref(name string, markers ...Marker) ModuleOption {
	return func(m *Module) {
		m.refs = append(m.refs, TypeRef{ref: namedType(name), markers: markers})
	}
}
