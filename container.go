package autoinject

import "reflect"

// Container is the dependency-injection registry a scan feeds.
//
// Constructors passed to a Container are functions returning the
// implementation type, optionally followed by an error. Their parameters are
// dependencies the container resolves. Containers that do not understand
// constructor functions natively can run them with Call.
//
// Implementations for dig and samber/do live in the digcontainer and
// docontainer packages.
type Container interface {
	// AddSingleton registers implType as a self-resolving singleton built by ctor.
	AddSingleton(implType reflect.Type, ctor reflect.Value) error

	// AddSingletonFactory registers serviceType as a singleton produced by
	// factory. The factory takes the concrete type as its only parameter and
	// returns serviceType, so the container hands out the concrete singleton.
	AddSingletonFactory(serviceType reflect.Type, factory reflect.Value) error

	// AddScoped registers serviceType as a scoped service implemented by implType.
	// When serviceType differs from implType, both resolve to the same
	// instance within a scope.
	AddScoped(serviceType, implType reflect.Type, ctor reflect.Value) error

	// AddTransient registers serviceType as a transient service implemented by implType.
	AddTransient(serviceType, implType reflect.Type, ctor reflect.Value) error
}
