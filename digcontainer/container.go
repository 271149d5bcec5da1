// Package digcontainer registers autoinject components into a go.uber.org/dig
// container.
//
// Singletons are provided on the root container. Scoped components are
// provided again into every child scope opened with NewScope, so dig caches
// one instance per scope. Transient components are never handed to dig; they
// are built on every resolution, with their parameters resolved from the
// scope that asked for them.
//
// Example:
//
//	container := digcontainer.New()
//	if _, err := autoinject.AddInjectedServices(ledger, users.Module, container); err != nil {
//	    log.Fatal(err)
//	}
//
//	scope, err := container.NewScope()
//	handler, err := digcontainer.Resolve[*users.Handler](scope)
package digcontainer

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/dig"

	"github.com/junioryono/autoinject"
)

// ErrAlreadyRegistered is returned when a scoped or transient service type is
// registered twice.
var ErrAlreadyRegistered = errors.New("service already registered")

// invoker is implemented by *dig.Container and *dig.Scope.
type invoker interface {
	Invoke(function any, opts ...dig.InvokeOption) error
}

type scopedProvider struct {
	serviceType reflect.Type
	ctor        reflect.Value
}

// Container adapts a *dig.Container to autoinject.Container.
type Container struct {
	root *dig.Container

	mu        sync.RWMutex
	scoped    []scopedProvider
	transient map[reflect.Type]reflect.Value
	services  map[reflect.Type]autoinject.ServiceLifetime
}

var _ autoinject.Container = (*Container)(nil)

// New creates a Container backed by a new dig container.
func New(opts ...dig.Option) *Container {
	return Wrap(dig.New(opts...))
}

// Wrap creates a Container that registers into an existing dig container.
func Wrap(root *dig.Container) *Container {
	return &Container{
		root:      root,
		transient: make(map[reflect.Type]reflect.Value),
		services:  make(map[reflect.Type]autoinject.ServiceLifetime),
	}
}

// Dig returns the underlying dig container.
func (c *Container) Dig() *dig.Container {
	return c.root
}

// AddSingleton implements autoinject.Container.
func (c *Container) AddSingleton(implType reflect.Type, ctor reflect.Value) error {
	if err := c.root.Provide(ctor.Interface()); err != nil {
		return err
	}
	c.track(implType, autoinject.Singleton)
	return nil
}

// AddSingletonFactory implements autoinject.Container.
func (c *Container) AddSingletonFactory(serviceType reflect.Type, factory reflect.Value) error {
	if err := c.root.Provide(factory.Interface()); err != nil {
		return err
	}
	c.track(serviceType, autoinject.Singleton)
	return nil
}

// AddScoped implements autoinject.Container. An interface is provided as a
// forward to implType so that both resolve to the same instance in a scope.
func (c *Container) AddScoped(serviceType, implType reflect.Type, ctor reflect.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[serviceType]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, autoinject.TypeName(serviceType))
	}

	if serviceType != implType {
		ctor = autoinject.ForwardFactory(implType, serviceType)
	}

	c.scoped = append(c.scoped, scopedProvider{serviceType: serviceType, ctor: ctor})
	c.services[serviceType] = autoinject.Scoped
	return nil
}

// AddTransient implements autoinject.Container.
func (c *Container) AddTransient(serviceType, implType reflect.Type, ctor reflect.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[serviceType]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, autoinject.TypeName(serviceType))
	}

	c.transient[serviceType] = autoinject.ConstructorAs(ctor, serviceType)
	c.services[serviceType] = autoinject.Transient
	return nil
}

// Lifetime returns the lifetime serviceType was registered with.
func (c *Container) Lifetime(serviceType reflect.Type) (autoinject.ServiceLifetime, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lifetime, ok := c.services[serviceType]
	return lifetime, ok
}

// Resolve resolves serviceType from the root container.
func (c *Container) Resolve(serviceType reflect.Type) (any, error) {
	return c.resolve(c.root, serviceType)
}

// NewScope opens a dig child scope holding a fresh set of scoped components.
func (c *Container) NewScope() (*Scope, error) {
	c.mu.RLock()
	scoped := make([]scopedProvider, len(c.scoped))
	copy(scoped, c.scoped)
	c.mu.RUnlock()

	name := uuid.NewString()
	child := c.root.Scope(name)
	for _, p := range scoped {
		if err := child.Provide(p.ctor.Interface()); err != nil {
			return nil, fmt.Errorf("provide %s to scope %s: %w", autoinject.TypeName(p.serviceType), name, err)
		}
	}

	return &Scope{container: c, scope: child, id: name}, nil
}

func (c *Container) track(serviceType reflect.Type, lifetime autoinject.ServiceLifetime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[serviceType] = lifetime
}

func (c *Container) resolve(target invoker, serviceType reflect.Type) (any, error) {
	c.mu.RLock()
	ctor, transient := c.transient[serviceType]
	c.mu.RUnlock()

	if transient {
		return autoinject.Call(ctor, func(dep reflect.Type) (any, error) {
			return c.resolve(target, dep)
		})
	}

	var instance reflect.Value
	capture := reflect.MakeFunc(
		reflect.FuncOf([]reflect.Type{serviceType}, nil, false),
		func(args []reflect.Value) []reflect.Value {
			instance = args[0]
			return nil
		},
	)

	if err := target.Invoke(capture.Interface()); err != nil {
		return nil, err
	}

	return instance.Interface(), nil
}

// Scope is a dig child scope opened by Container.NewScope.
type Scope struct {
	container *Container
	scope     *dig.Scope
	id        string
}

// ID returns the name of the underlying dig scope.
func (s *Scope) ID() string {
	return s.id
}

// Resolve resolves serviceType within the scope.
func (s *Scope) Resolve(serviceType reflect.Type) (any, error) {
	return s.container.resolve(s.scope, serviceType)
}

// Resolver is implemented by Container and Scope.
type Resolver interface {
	Resolve(serviceType reflect.Type) (any, error)
}

// Resolve resolves T from r.
func Resolve[T any](r Resolver) (T, error) {
	var zero T

	instance, err := r.Resolve(autoinject.TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("resolved %T, want %s", instance, autoinject.TypeName(autoinject.TypeOf[T]()))
	}

	return typed, nil
}
