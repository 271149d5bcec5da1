package autoinject

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeOf returns the reflect.Type of T. Unlike reflect.TypeOf it works for
// interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isInstantiable reports whether a default constructor can build t.
func isInstantiable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	case reflect.Pointer:
		return t.Elem().Kind() != reflect.Interface && t.Elem().Kind() != reflect.Pointer
	default:
		return true
	}
}

// isAbstract reports whether t can never be a component, with or without a constructor.
func isAbstract(t reflect.Type) bool {
	if t == nil {
		return true
	}

	return t.Kind() == reflect.Interface || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface)
}

// newInstance returns a fresh value of t: a pointer to a new zero value for
// pointer types, an initialized map for map types and the zero value otherwise.
func newInstance(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem())
	case reflect.Map:
		return reflect.MakeMap(t)
	default:
		return reflect.New(t).Elem()
	}
}

// defaultConstructor returns a func() T that builds a new instance per call.
func defaultConstructor(t reflect.Type) reflect.Value {
	fnType := reflect.FuncOf(nil, []reflect.Type{t}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{newInstance(t)}
	})
}

// validateConstructor checks that ctor is a function returning exactly t,
// optionally followed by an error.
func validateConstructor(ctor any, t reflect.Type) (reflect.Value, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return reflect.Value{}, ErrInvalidConstructor
	}

	fnType := fn.Type()
	if fnType.IsVariadic() {
		return reflect.Value{}, ErrInvalidConstructor
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return reflect.Value{}, ErrInvalidConstructor
		}
	default:
		return reflect.Value{}, ErrInvalidConstructor
	}

	if fnType.Out(0) != t {
		return reflect.Value{}, fmt.Errorf("%w: returns %s", ErrConstructorMismatch, TypeName(fnType.Out(0)))
	}

	return fn, nil
}

func returnsError(fnType reflect.Type) bool {
	return fnType.NumOut() == 2 && fnType.Out(1) == errorType
}

// ConstructorAs adapts ctor so that it produces serviceType instead of its own
// result type. The adapted function keeps the parameters and the optional
// error result of ctor. serviceType must be assignable from the result of ctor.
func ConstructorAs(ctor reflect.Value, serviceType reflect.Type) reflect.Value {
	ctorType := ctor.Type()
	if ctorType.Out(0) == serviceType {
		return ctor
	}

	in := make([]reflect.Type, ctorType.NumIn())
	for i := range in {
		in[i] = ctorType.In(i)
	}

	out := []reflect.Type{serviceType}
	if returnsError(ctorType) {
		out = append(out, errorType)
	}

	return reflect.MakeFunc(reflect.FuncOf(in, out, false), func(args []reflect.Value) []reflect.Value {
		results := ctor.Call(args)

		converted := reflect.New(serviceType).Elem()
		if !isNilValue(results[0]) {
			converted.Set(results[0])
		}

		results[0] = converted
		return results
	})
}

// ForwardFactory returns a func(implType) serviceType that hands back the
// instance it receives. Containers use it to resolve an interface through the
// registration of its concrete type, so both share one instance.
func ForwardFactory(implType, serviceType reflect.Type) reflect.Value {
	fnType := reflect.FuncOf([]reflect.Type{implType}, []reflect.Type{serviceType}, false)
	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		converted := reflect.New(serviceType).Elem()
		if !isNilValue(args[0]) {
			converted.Set(args[0])
		}
		return []reflect.Value{converted}
	})
}

// Call invokes ctor, resolving each of its parameters with resolve.
// It is meant for containers that do not understand constructor functions natively.
func Call(ctor reflect.Value, resolve func(reflect.Type) (any, error)) (any, error) {
	if !ctor.IsValid() || ctor.Kind() != reflect.Func {
		return nil, ErrInvalidConstructor
	}

	ctorType := ctor.Type()
	args := make([]reflect.Value, ctorType.NumIn())
	for i := range args {
		paramType := ctorType.In(i)

		dep, err := resolve(paramType)
		if err != nil {
			return nil, fmt.Errorf("resolve parameter %d (%s): %w", i, TypeName(paramType), err)
		}

		if dep == nil {
			args[i] = reflect.Zero(paramType)
			continue
		}

		arg := reflect.ValueOf(dep)
		if !arg.Type().AssignableTo(paramType) {
			return nil, fmt.Errorf("resolve parameter %d: %s is not assignable to %s",
				i, TypeName(arg.Type()), TypeName(paramType))
		}
		args[i] = arg
	}

	results := ctor.Call(args)
	if returnsError(ctorType) && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	return results[0].Interface(), nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return !v.IsValid()
	}
}
