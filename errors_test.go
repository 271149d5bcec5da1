package autoinject_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junioryono/autoinject"
	"github.com/junioryono/autoinject/internal/testutil"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	sentinelErrors := []struct {
		err     error
		message string
	}{
		{autoinject.ErrNilArgument, "argument cannot be nil"},
		{autoinject.ErrEmptyIdentity, "module identity cannot be empty"},
		{autoinject.ErrTypeNotFound, "type not found in registry"},
		{autoinject.ErrNotInstantiable, "type cannot be instantiated"},
		{autoinject.ErrNotInterface, "type is not an interface"},
		{autoinject.ErrNotImplemented, "type does not implement interface"},
		{autoinject.ErrConstructorMismatch, "constructor does not produce the component type"},
		{autoinject.ErrInvalidConstructor, "constructor must be a function returning the component and an optional error"},
		{autoinject.ErrUnknownManifestFormat, "unknown manifest format"},
	}

	for _, tt := range sentinelErrors {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestTypedErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	greeter := autoinject.TypeOf[testutil.Greeter]()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "argument",
			err:      autoinject.ArgumentError{Name: "container", Cause: autoinject.ErrNilArgument},
			expected: `invalid argument "container": argument cannot be nil`,
		},
		{
			name:     "lifetime",
			err:      autoinject.LifetimeError{Value: 7},
			expected: "invalid service lifetime: 7",
		},
		{
			name:     "configuration",
			err:      autoinject.ConfigurationError{TypeName: "app.Service", Cause: cause},
			expected: "invalid component app.Service: boom",
		},
		{
			name:     "type resolution",
			err:      autoinject.TypeResolutionError{TypeName: "app.Missing", Cause: autoinject.ErrTypeNotFound},
			expected: "failed to resolve type app.Missing: type not found in registry",
		},
		{
			name: "registration",
			err: autoinject.RegistrationError{
				ServiceType: greeter,
				Lifetime:    autoinject.Scoped,
				Operation:   "add-scoped",
				Cause:       cause,
			},
			expected: "failed to add-scoped github.com/junioryono/autoinject/internal/testutil.Greeter (Scoped): boom",
		},
		{
			name:     "manifest",
			err:      autoinject.ManifestError{Source: "app.yaml", Cause: cause},
			expected: "manifest app.yaml: boom",
		},
		{
			name:     "module",
			err:      autoinject.ModuleError{Module: "app/users", Cause: cause},
			expected: "module app/users: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorChains(t *testing.T) {
	t.Parallel()

	err := autoinject.ModuleError{
		Module: "app",
		Cause: autoinject.ConfigurationError{
			TypeName: "app.Service",
			Cause:    fmt.Errorf("%w: app.Reader", autoinject.ErrNotImplemented),
		},
	}

	assert.ErrorIs(t, err, autoinject.ErrNotImplemented)
	assert.True(t, autoinject.IsConfigurationError(err))
	assert.False(t, autoinject.IsLifetimeError(err))

	var configErr autoinject.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "app.Service", configErr.TypeName)

	lifetimeErr := autoinject.ArgumentError{Name: "lifetime", Cause: autoinject.LifetimeError{Value: -1}}
	assert.True(t, autoinject.IsLifetimeError(lifetimeErr))
	assert.False(t, autoinject.IsConfigurationError(lifetimeErr))
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	const pkg = "github.com/junioryono/autoinject/internal/testutil"

	tests := []struct {
		name     string
		typ      reflect.Type
		expected string
	}{
		{"nil", nil, "<nil>"},
		{"struct", autoinject.TypeOf[testutil.Clock](), pkg + ".Clock"},
		{"pointer", autoinject.TypeOf[*testutil.Clock](), "*" + pkg + ".Clock"},
		{"interface", autoinject.TypeOf[testutil.Greeter](), pkg + ".Greeter"},
		{"slice", autoinject.TypeOf[[]*testutil.Clock](), "[]*" + pkg + ".Clock"},
		{"map", autoinject.TypeOf[map[string]testutil.Greeter](), "map[string]" + pkg + ".Greeter"},
		{"builtin", autoinject.TypeOf[int](), "int"},
		{"error", autoinject.TypeOf[error](), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, autoinject.TypeName(tt.typ))
		})
	}
}
