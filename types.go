package autoinject

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// TypeRegistry maps full type names to reflect.Type values.
//
// Catalog entries that reference components by name (manifests, Ref) are
// resolved through a TypeRegistry. A name that was never registered, for
// example because the package declaring it is not linked into the binary,
// fails to resolve and the entry is dropped from the scan.
//
// TypeRegistry is safe for concurrent use.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry creates an empty TypeRegistry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[string]reflect.Type),
	}
}

var defaultTypes = NewTypeRegistry()

// DefaultTypes returns the registry used by modules that were not given one
// with WithTypes. Packages typically populate it from init functions.
func DefaultTypes() *TypeRegistry {
	return defaultTypes
}

// RegisterType registers T in r under its full name. A nil r registers into DefaultTypes.
//
// Example:
//
//	func init() {
//	    autoinject.RegisterType[*UserService](nil)
//	    autoinject.RegisterType[UserReader](nil)
//	}
func RegisterType[T any](r *TypeRegistry) {
	if r == nil {
		r = defaultTypes
	}
	r.Register(TypeOf[T]())
}

// Register adds each type under its full name. Nil types are ignored.
func (r *TypeRegistry) Register(types ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if t == nil {
			continue
		}
		r.types[TypeName(t)] = t
	}
}

// RegisterAs adds t under an explicit name, in addition to any other name it has.
func (r *TypeRegistry) RegisterAs(name string, t reflect.Type) {
	if t == nil || name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = t
}

// Lookup returns the type registered under name. A name prefixed with "*"
// resolves to a pointer to the named type when only the type itself is registered.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.types[name]; ok {
		return t, nil
	}

	if elemName, ok := strings.CutPrefix(name, "*"); ok {
		if t, ok := r.types[elemName]; ok {
			return reflect.PointerTo(t), nil
		}
	}

	return nil, TypeResolutionError{TypeName: name, Cause: ErrTypeNotFound}
}

// Len returns the number of registered names.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Names returns the registered names in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}
