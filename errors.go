package autoinject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.

var (
	// Argument errors.
	ErrNilArgument   = errors.New("argument cannot be nil")
	ErrEmptyIdentity = errors.New("module identity cannot be empty")

	// Catalog errors.
	ErrTypeNotFound        = errors.New("type not found in registry")
	ErrNotInstantiable     = errors.New("type cannot be instantiated")
	ErrNotInterface        = errors.New("type is not an interface")
	ErrNotImplemented      = errors.New("type does not implement interface")
	ErrConstructorMismatch = errors.New("constructor does not produce the component type")
	ErrInvalidConstructor  = errors.New("constructor must be a function returning the component and an optional error")

	// Manifest errors.
	ErrUnknownManifestFormat = errors.New("unknown manifest format")
)

var (
	_ error = ArgumentError{}
	_ error = LifetimeError{}
	_ error = ConfigurationError{}
	_ error = TypeResolutionError{}
	_ error = RegistrationError{}
	_ error = ManifestError{}
	_ error = ModuleError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// ArgumentError indicates a nil or otherwise unusable argument at a call boundary.
type ArgumentError struct {
	Name  string
	Cause error
}

func (e ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %v", e.Name, e.Cause)
}

func (e ArgumentError) Unwrap() error {
	return e.Cause
}

// LifetimeError indicates an invalid service lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// ConfigurationError indicates a marked component that cannot be registered.
// The host module is misconfigured; the error is never retried.
type ConfigurationError struct {
	// TypeName is the full name of the offending type.
	TypeName string
	Cause    error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid component %s: %v", e.TypeName, e.Cause)
}

func (e ConfigurationError) Unwrap() error {
	return e.Cause
}

// TypeResolutionError indicates a catalog entry whose type could not be resolved.
// Scanning absorbs these errors and drops the entry.
type TypeResolutionError struct {
	TypeName string
	Cause    error
}

func (e TypeResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve type %s: %v", e.TypeName, e.Cause)
}

func (e TypeResolutionError) Unwrap() error {
	return e.Cause
}

// RegistrationError wraps an error returned by the container while registering.
type RegistrationError struct {
	ServiceType reflect.Type
	Lifetime    ServiceLifetime
	Operation   string // "add-singleton", "add-singleton-factory", "add-scoped", "add-transient"
	Cause       error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s (%s): %v", e.Operation, TypeName(e.ServiceType), e.Lifetime, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// ManifestError indicates a manifest that could not be decoded.
type ManifestError struct {
	Source string
	Cause  error
}

func (e ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Source, e.Cause)
}

func (e ManifestError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors raised while scanning a specific module.
type ModuleError struct {
	Module ModuleIdentity
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target ConfigurationError
	return errors.As(err, &target)
}

// IsLifetimeError reports whether err is or wraps a LifetimeError.
func IsLifetimeError(err error) bool {
	var target LifetimeError
	return errors.As(err, &target)
}

// TypeName returns the full name of t, qualified by its package path.
// Pointer, slice and map types keep their Go notation, e.g.
// "*github.com/acme/app/users.Service".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeName(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
		}
	}

	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return strings.TrimSpace(t.String())
}
