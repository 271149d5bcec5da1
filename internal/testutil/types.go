package testutil

import (
	"github.com/google/uuid"
)

// Greeter is implemented by the fixture components.
type Greeter interface {
	Greet() string
}

// Closer is a second interface implemented by some fixtures.
type Closer interface {
	Close() error
}

// Named is a third interface used to test multiple bindings.
type Named interface {
	Name() string
}

// Clock is a singleton fixture with no interfaces.
type Clock struct {
	ID string
}

// NewClock creates a Clock with a unique ID.
func NewClock() *Clock {
	return &Clock{ID: uuid.NewString()}
}

// GreetingService is a fixture bound to Greeter.
type GreetingService struct {
	ID    string
	Clock *Clock
}

// NewGreetingService creates a GreetingService that depends on a Clock.
func NewGreetingService(clock *Clock) *GreetingService {
	return &GreetingService{ID: uuid.NewString(), Clock: clock}
}

func (s *GreetingService) Greet() string { return "hello" }

// RequestContext is a fixture bound to Greeter, Closer and Named.
type RequestContext struct {
	ID     string
	closed bool
}

func (r *RequestContext) Greet() string { return "hi " + r.ID }
func (r *RequestContext) Close() error  { r.closed = true; return nil }
func (r *RequestContext) Name() string  { return "request" }

// Closed reports whether Close was called.
func (r *RequestContext) Closed() bool { return r.closed }

// Unlinked is a type that is never registered in a TypeRegistry by the
// fixtures, standing in for a type whose package is missing.
type Unlinked struct{}

// Factory is a named func type; it cannot be built without a constructor.
type Factory func() error
