package autoinject

import (
	"reflect"
)

// Result summarizes one AddInjectedServices call.
type Result struct {
	// RegisteredServiceCount is the number of concrete components registered.
	RegisteredServiceCount int

	// RegisteredInterfaceCount is the number of interface bindings registered.
	RegisteredInterfaceCount int
}

// IsEmpty reports whether nothing was registered.
func (r Result) IsEmpty() bool {
	return r.RegisteredServiceCount == 0 && r.RegisteredInterfaceCount == 0
}

// AddInjectedServices scans module and registers its marked components into
// container, once per module identity for the lifetime of ledger.
//
// The first call for a module claims it in the ledger, scans its catalog and
// registers every declaration. Every later call for the same identity, from
// any goroutine, returns an empty Result without touching the container.
//
// A nil argument, an empty module identity, a marked type that cannot be
// instantiated, an invalid lifetime or a container failure is returned as an
// error with an empty Result. A module whose scan fails stays claimed.
//
// Example:
//
//	ledger := autoinject.NewLedger()
//	container := digcontainer.New()
//
//	result, err := autoinject.AddInjectedServices(ledger, users.Module, container)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	scope, err := container.NewScope()
func AddInjectedServices(ledger *Ledger, module *Module, container Container, opts ...Option) (Result, error) {
	if ledger == nil {
		return Result{}, ArgumentError{Name: "ledger", Cause: ErrNilArgument}
	}

	if module == nil {
		return Result{}, ArgumentError{Name: "module", Cause: ErrNilArgument}
	}

	if module.identity == "" {
		return Result{}, ArgumentError{Name: "module", Cause: ErrEmptyIdentity}
	}

	if isNilContainer(container) {
		return Result{}, ArgumentError{Name: "container", Cause: ErrNilArgument}
	}

	o := newOptions(opts)

	if !ledger.TryClaim(module.identity) {
		o.logger.Debug("module already scanned", "module", module.identity)
		return Result{}, nil
	}

	decls, err := (&Scanner{opts: o}).Scan(module)
	if err != nil {
		return Result{}, ModuleError{Module: module.identity, Cause: err}
	}

	result, err := (&Registrar{opts: o}).RegisterAll(decls, container)
	if err != nil {
		return Result{}, ModuleError{Module: module.identity, Cause: err}
	}

	o.logger.Debug("module scanned",
		"module", module.identity,
		"services", result.RegisteredServiceCount,
		"interfaces", result.RegisteredInterfaceCount,
	)

	return result, nil
}

// isNilContainer also catches typed nil pointers stored in the interface.
func isNilContainer(container Container) bool {
	if container == nil {
		return true
	}

	v := reflect.ValueOf(container)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
