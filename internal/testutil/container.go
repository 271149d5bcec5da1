package testutil

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/junioryono/autoinject"
)

// ErrNotRegistered is returned when resolving a type the container does not know.
var ErrNotRegistered = errors.New("service not registered")

// ErrScopedFromRoot is returned when a scoped service is resolved outside a scope.
var ErrScopedFromRoot = errors.New("scoped service resolved from root")

// Call records one registration call made against a Container.
type Call struct {
	Op          string // "AddSingleton", "AddSingletonFactory", "AddScoped", "AddTransient"
	ServiceType reflect.Type
	ImplType    reflect.Type
}

type binding struct {
	lifetime autoinject.ServiceLifetime
	implType reflect.Type
	ctor     reflect.Value
}

// Container is an in-memory autoinject.Container used by tests. It records
// every call and resolves registrations with the lifetime semantics the
// registrar expects.
type Container struct {
	mu         sync.Mutex
	calls      []Call
	bindings   map[reflect.Type]binding
	singletons map[reflect.Type]any

	// FailOn makes registrations of this service type fail with Err.
	FailOn reflect.Type
	Err    error
}

var _ autoinject.Container = (*Container)(nil)

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{
		bindings:   make(map[reflect.Type]binding),
		singletons: make(map[reflect.Type]any),
	}
}

func (c *Container) record(op string, serviceType, implType reflect.Type, b binding) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Op: op, ServiceType: serviceType, ImplType: implType})

	if c.FailOn != nil && c.FailOn == serviceType {
		if c.Err != nil {
			return c.Err
		}
		return fmt.Errorf("registration of %s rejected", autoinject.TypeName(serviceType))
	}

	if _, exists := c.bindings[serviceType]; exists {
		return fmt.Errorf("%s already registered", autoinject.TypeName(serviceType))
	}

	c.bindings[serviceType] = b
	return nil
}

// AddSingleton implements autoinject.Container.
func (c *Container) AddSingleton(implType reflect.Type, ctor reflect.Value) error {
	return c.record("AddSingleton", implType, implType, binding{
		lifetime: autoinject.Singleton,
		implType: implType,
		ctor:     ctor,
	})
}

// AddSingletonFactory implements autoinject.Container.
func (c *Container) AddSingletonFactory(serviceType reflect.Type, factory reflect.Value) error {
	return c.record("AddSingletonFactory", serviceType, factory.Type().In(0), binding{
		lifetime: autoinject.Singleton,
		implType: factory.Type().In(0),
		ctor:     factory,
	})
}

// AddScoped implements autoinject.Container.
func (c *Container) AddScoped(serviceType, implType reflect.Type, ctor reflect.Value) error {
	return c.record("AddScoped", serviceType, implType, binding{
		lifetime: autoinject.Scoped,
		implType: implType,
		ctor:     ctor,
	})
}

// AddTransient implements autoinject.Container.
func (c *Container) AddTransient(serviceType, implType reflect.Type, ctor reflect.Value) error {
	return c.record("AddTransient", serviceType, implType, binding{
		lifetime: autoinject.Transient,
		implType: implType,
		ctor:     ctor,
	})
}

// Calls returns a copy of the recorded calls in order.
func (c *Container) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	calls := make([]Call, len(c.calls))
	copy(calls, c.calls)
	return calls
}

// Contains reports whether serviceType is registered.
func (c *Container) Contains(serviceType reflect.Type) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.bindings[serviceType]
	return ok
}

// Lifetime returns the lifetime serviceType was registered with.
func (c *Container) Lifetime(serviceType reflect.Type) (autoinject.ServiceLifetime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bindings[serviceType]
	return b.lifetime, ok
}

// Resolve resolves serviceType from the root of the container.
func (c *Container) Resolve(serviceType reflect.Type) (any, error) {
	return c.resolve(serviceType, nil)
}

// NewScope creates a scope for scoped services.
func (c *Container) NewScope() *Scope {
	return &Scope{container: c, instances: make(map[reflect.Type]any)}
}

func (c *Container) lookup(serviceType reflect.Type) (binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bindings[serviceType]
	return b, ok
}

func (c *Container) resolve(serviceType reflect.Type, scope *Scope) (any, error) {
	b, ok := c.lookup(serviceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, autoinject.TypeName(serviceType))
	}

	build := func() (any, error) {
		return autoinject.Call(b.ctor, func(dep reflect.Type) (any, error) {
			return c.resolve(dep, scope)
		})
	}

	switch b.lifetime {
	case autoinject.Singleton:
		c.mu.Lock()
		instance, ok := c.singletons[serviceType]
		c.mu.Unlock()
		if ok {
			return instance, nil
		}

		instance, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.singletons[serviceType]; ok {
			return existing, nil
		}
		c.singletons[serviceType] = instance
		return instance, nil

	case autoinject.Scoped:
		if scope == nil {
			return nil, fmt.Errorf("%w: %s", ErrScopedFromRoot, autoinject.TypeName(serviceType))
		}

		// Scoped instances are shared per implementation, so a type and
		// its interfaces resolve to one instance inside a scope.
		scope.mu.Lock()
		instance, ok := scope.instances[b.implType]
		scope.mu.Unlock()
		if ok {
			return instance, nil
		}

		instance, err := build()
		if err != nil {
			return nil, err
		}

		scope.mu.Lock()
		defer scope.mu.Unlock()
		if existing, ok := scope.instances[b.implType]; ok {
			return existing, nil
		}
		scope.instances[b.implType] = instance
		return instance, nil

	default:
		return build()
	}
}

// Scope holds the scoped instances of one logical unit of work.
type Scope struct {
	container *Container
	mu        sync.Mutex
	instances map[reflect.Type]any
}

// Resolve resolves serviceType within the scope.
func (s *Scope) Resolve(serviceType reflect.Type) (any, error) {
	return s.container.resolve(serviceType, s)
}
