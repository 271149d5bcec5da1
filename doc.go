// Package autoinject registers the marked components of a module into an
// existing dependency injection container, once per module.
//
// # Overview
//
// A module declares its components in a catalog. Each catalog entry names a
// type and may carry a marker with a lifetime and the interfaces the type
// should be bound to. AddInjectedServices scans the catalog and registers
// every marked type into a Container:
//
//	var Module = autoinject.NewModule("github.com/acme/app/users",
//	    autoinject.Component[*UserService](autoinject.Singleton,
//	        autoinject.As(new(UserReader)),
//	    ),
//	    autoinject.Component[*UserHandler](autoinject.Scoped),
//	)
//
//	ledger := autoinject.NewLedger()
//	container := digcontainer.New()
//
//	result, err := autoinject.AddInjectedServices(ledger, Module, container)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Service Lifetimes
//
//   - Singleton: one instance for the container. Interfaces bound to a
//     singleton resolve to that same instance.
//   - Scoped: one instance per scope, shared by the type and its interfaces.
//   - Transient: a new instance for every resolution.
//
// # Idempotence
//
// A Ledger remembers every module identity it has seen. The first
// AddInjectedServices call for a module claims it and registers its
// components; all later calls with the same Ledger return an empty Result
// without touching the container, even when they race.
//
// # Catalogs
//
// Catalogs can be written inline with Component, Plain and Ref, loaded from
// YAML or HCL manifests with LoadManifest, or generated from
// "//autoinject:singleton" style directives with cmd/injectgen. Entries that
// reference types by name are resolved through a TypeRegistry; entries that
// do not resolve are dropped from the scan without failing it.
//
// # Error Handling
//
//   - ArgumentError: nil ledger, module or container, or an invalid lifetime
//   - ConfigurationError: a marked type that cannot be instantiated, or an
//     interface binding the type does not satisfy
//   - RegistrationError: the container rejected a registration
//   - ManifestError: a manifest could not be decoded
//
// Errors are returned to the caller and never logged or retried.
package autoinject
