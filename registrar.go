package autoinject

import (
	"fmt"
	"reflect"
)

// Registrar applies declarations to a Container according to their lifetime.
//
// Lifetime mapping:
//
//	Singleton  concrete: AddSingleton(T)          interface: AddSingletonFactory(I, func(T) I)
//	Scoped     concrete: AddScoped(T, T)          interface: AddScoped(I, T)
//	Transient  concrete: AddTransient(T, T)       interface: AddTransient(I, T)
//
// Registrations are issued sequentially; the container is assumed to be
// externally synchronized.
type Registrar struct {
	opts *options
}

// NewRegistrar creates a Registrar.
func NewRegistrar(opts ...Option) *Registrar {
	return &Registrar{opts: newOptions(opts)}
}

// Register registers decl into container and returns the number of concrete
// registrations (always 1 on success) and interface registrations made.
func (r *Registrar) Register(decl Declaration, container Container) (services, interfaces int, err error) {
	if isNilContainer(container) {
		return 0, 0, ArgumentError{Name: "container", Cause: ErrNilArgument}
	}

	if decl.Type == nil || !decl.Constructor.IsValid() {
		return 0, 0, ArgumentError{Name: "declaration", Cause: ErrNilArgument}
	}

	switch decl.Lifetime {
	case Singleton:
		if err := r.add(decl, decl.Type, "add-singleton", func() error {
			return container.AddSingleton(decl.Type, decl.Constructor)
		}); err != nil {
			return 0, 0, err
		}

		for _, iface := range decl.Interfaces {
			if err := r.add(decl, iface, "add-singleton-factory", func() error {
				return container.AddSingletonFactory(iface, ForwardFactory(decl.Type, iface))
			}); err != nil {
				return 1, interfaces, err
			}
			interfaces++
		}

	case Scoped:
		for _, serviceType := range decl.serviceTypes() {
			if err := r.add(decl, serviceType, "add-scoped", func() error {
				return container.AddScoped(serviceType, decl.Type, decl.Constructor)
			}); err != nil {
				return services, interfaces, err
			}
			services, interfaces = tally(decl, serviceType, services, interfaces)
		}
		return services, interfaces, nil

	case Transient:
		for _, serviceType := range decl.serviceTypes() {
			if err := r.add(decl, serviceType, "add-transient", func() error {
				return container.AddTransient(serviceType, decl.Type, decl.Constructor)
			}); err != nil {
				return services, interfaces, err
			}
			services, interfaces = tally(decl, serviceType, services, interfaces)
		}
		return services, interfaces, nil

	default:
		return 0, 0, ArgumentError{Name: "lifetime", Cause: LifetimeError{Value: decl.Lifetime}}
	}

	return 1, interfaces, nil
}

// RegisterAll registers every declaration and returns the aggregated counts.
// On a container failure the counts cover the registrations made before it.
// Lifetimes are validated before the first registration, so an invalid
// lifetime never leaves a partially registered container behind.
func (r *Registrar) RegisterAll(decls []Declaration, container Container) (Result, error) {
	if isNilContainer(container) {
		return Result{}, ArgumentError{Name: "container", Cause: ErrNilArgument}
	}

	for _, decl := range decls {
		if !decl.Lifetime.IsValid() {
			return Result{}, ArgumentError{
				Name:  "lifetime",
				Cause: fmt.Errorf("%s: %w", decl.Name(), LifetimeError{Value: decl.Lifetime}),
			}
		}
	}

	var result Result
	for _, decl := range decls {
		services, interfaces, err := r.Register(decl, container)
		result.RegisteredServiceCount += services
		result.RegisteredInterfaceCount += interfaces
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (r *Registrar) add(decl Declaration, serviceType reflect.Type, operation string, register func() error) error {
	if err := register(); err != nil {
		return RegistrationError{
			ServiceType: serviceType,
			Lifetime:    decl.Lifetime,
			Operation:   operation,
			Cause:       err,
		}
	}

	r.opts.logger.Debug("registered component",
		"service", TypeName(serviceType),
		"implementation", decl.Name(),
		"lifetime", decl.Lifetime,
	)

	if r.opts.onRegistered != nil {
		r.opts.onRegistered(decl.Lifetime, serviceType, decl.Type)
	}

	return nil
}

// serviceTypes returns the concrete type followed by the bound interfaces.
func (d Declaration) serviceTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(d.Interfaces)+1)
	types = append(types, d.Type)
	return append(types, d.Interfaces...)
}

func tally(decl Declaration, serviceType reflect.Type, services, interfaces int) (int, int) {
	if serviceType == decl.Type {
		return services + 1, interfaces
	}
	return services, interfaces + 1
}
