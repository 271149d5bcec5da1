package testutil

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/autoinject"
)

// Resolver is implemented by containers and scopes that resolve by type.
type Resolver interface {
	Resolve(serviceType reflect.Type) (any, error)
}

// MustResolve resolves T and fails the test on error.
func MustResolve[T any](t *testing.T, r Resolver) T {
	t.Helper()

	instance, err := r.Resolve(autoinject.TypeOf[T]())
	require.NoError(t, err, "failed to resolve %s", autoinject.TypeName(autoinject.TypeOf[T]()))
	require.NotNil(t, instance, "resolved instance is nil")

	typed, ok := instance.(T)
	require.True(t, ok, "resolved %T, want %s", instance, autoinject.TypeName(autoinject.TypeOf[T]()))
	return typed
}

// AssertSameInstance checks that a and b are the same pointer.
func AssertSameInstance(t *testing.T, a, b any, msgAndArgs ...any) {
	t.Helper()
	require.True(t, sameInstance(a, b), msgAndArgs...)
}

// AssertDistinctInstances checks that a and b are different pointers.
func AssertDistinctInstances(t *testing.T, a, b any, msgAndArgs ...any) {
	t.Helper()
	require.False(t, sameInstance(a, b), msgAndArgs...)
}

func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Pointer() == vb.Pointer()
}

// CountCalls returns how many recorded calls used op.
func CountCalls(calls []Call, op string) int {
	n := 0
	for _, c := range calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
