// Package docontainer registers autoinject components into a
// github.com/samber/do/v2 injector.
//
// Services are named after the full name of their type, as returned by
// autoinject.TypeName. Singletons are lazy services of the root scope.
// Scoped components are provided again into every child scope opened with
// NewScope, where do keeps one instance per scope. Transient components are
// provided on the root scope and on every child scope, so their dependencies
// resolve from the scope that asked for them.
package docontainer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/do/v2"

	"github.com/junioryono/autoinject"
)

// ErrAlreadyRegistered is returned when a service type is registered twice.
var ErrAlreadyRegistered = errors.New("service already registered")

// ServiceName returns the do service name used for t.
func ServiceName(t reflect.Type) string {
	return autoinject.TypeName(t)
}

type registration struct {
	name     string
	provider do.Provider[any]
}

// Container adapts a *do.RootScope to autoinject.Container.
type Container struct {
	root *do.RootScope

	mu        sync.Mutex
	services  map[string]autoinject.ServiceLifetime
	scoped    []registration
	transient []registration
}

var _ autoinject.Container = (*Container)(nil)

// New creates a Container backed by a new do injector.
func New() *Container {
	return Wrap(do.New())
}

// Wrap creates a Container that registers into an existing root scope.
func Wrap(root *do.RootScope) *Container {
	return &Container{
		root:     root,
		services: make(map[string]autoinject.ServiceLifetime),
	}
}

// Injector returns the underlying root scope.
func (c *Container) Injector() *do.RootScope {
	return c.root
}

// AddSingleton implements autoinject.Container.
func (c *Container) AddSingleton(implType reflect.Type, ctor reflect.Value) error {
	return c.add(implType, autoinject.Singleton, ctor)
}

// AddSingletonFactory implements autoinject.Container.
func (c *Container) AddSingletonFactory(serviceType reflect.Type, factory reflect.Value) error {
	return c.add(serviceType, autoinject.Singleton, factory)
}

// AddScoped implements autoinject.Container. An interface is provided as a
// forward to implType so that both resolve to the same instance in a scope.
func (c *Container) AddScoped(serviceType, implType reflect.Type, ctor reflect.Value) error {
	if serviceType != implType {
		ctor = autoinject.ForwardFactory(implType, serviceType)
	}
	return c.add(serviceType, autoinject.Scoped, ctor)
}

// AddTransient implements autoinject.Container.
func (c *Container) AddTransient(serviceType, _ reflect.Type, ctor reflect.Value) error {
	return c.add(serviceType, autoinject.Transient, autoinject.ConstructorAs(ctor, serviceType))
}

func (c *Container) add(serviceType reflect.Type, lifetime autoinject.ServiceLifetime, ctor reflect.Value) error {
	name := ServiceName(serviceType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	reg := registration{name: name, provider: provider(ctor)}

	switch lifetime {
	case autoinject.Singleton:
		if err := provideNamed(c.root, reg); err != nil {
			return err
		}
	case autoinject.Scoped:
		c.scoped = append(c.scoped, reg)
	case autoinject.Transient:
		if err := provideTransient(c.root, reg); err != nil {
			return err
		}
		c.transient = append(c.transient, reg)
	}

	c.services[name] = lifetime
	return nil
}

// Lifetime returns the lifetime serviceType was registered with.
func (c *Container) Lifetime(serviceType reflect.Type) (autoinject.ServiceLifetime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lifetime, ok := c.services[ServiceName(serviceType)]
	return lifetime, ok
}

// Resolve resolves serviceType from the root scope.
func (c *Container) Resolve(serviceType reflect.Type) (any, error) {
	return do.InvokeNamed[any](c.root, ServiceName(serviceType))
}

// NewScope opens a do child scope holding a fresh set of scoped components.
func (c *Container) NewScope() (*Scope, error) {
	c.mu.Lock()
	scoped := append([]registration(nil), c.scoped...)
	transient := append([]registration(nil), c.transient...)
	c.mu.Unlock()

	child := c.root.Scope(uuid.NewString())
	for _, reg := range scoped {
		if err := provideNamed(child, reg); err != nil {
			return nil, err
		}
	}
	for _, reg := range transient {
		if err := provideTransient(child, reg); err != nil {
			return nil, err
		}
	}

	return &Scope{scope: child}, nil
}

// Shutdown shuts the root scope down, including every open child scope.
func (c *Container) Shutdown(ctx context.Context) error {
	return reportError(c.root.ShutdownWithContext(ctx))
}

// Scope is a do child scope opened by Container.NewScope.
type Scope struct {
	scope *do.Scope
}

// ID returns the name of the underlying do scope.
func (s *Scope) ID() string {
	return s.scope.Name()
}

// Resolve resolves serviceType within the scope.
func (s *Scope) Resolve(serviceType reflect.Type) (any, error) {
	return do.InvokeNamed[any](s.scope, ServiceName(serviceType))
}

// Close shuts the scope down.
func (s *Scope) Close() error {
	return reportError(s.scope.Shutdown())
}

// provider adapts a constructor function to a do provider. Each parameter is
// invoked by name from the injector the provider runs in.
func provider(ctor reflect.Value) do.Provider[any] {
	return func(i do.Injector) (any, error) {
		return autoinject.Call(ctor, func(dep reflect.Type) (any, error) {
			return do.InvokeNamed[any](i, ServiceName(dep))
		})
	}
}

// do panics on duplicate names; these helpers turn the panic into an error.
func provideNamed(i do.Injector, reg registration) (err error) {
	defer recoverProvide(reg.name, &err)
	do.ProvideNamed(i, reg.name, reg.provider)
	return nil
}

func provideTransient(i do.Injector, reg registration) (err error) {
	defer recoverProvide(reg.name, &err)
	do.ProvideNamedTransient(i, reg.name, reg.provider)
	return nil
}

func recoverProvide(name string, err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("provide %s: %w", name, e)
			return
		}
		*err = fmt.Errorf("provide %s: %v", name, r)
	}
}

func reportError(report *do.ShutdownReport) error {
	if report == nil || report.Succeed {
		return nil
	}
	return report
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
