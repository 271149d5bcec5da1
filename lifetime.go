package autoinject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceLifetime specifies how instances of a scanned component are shared
// once the component is registered into a container.
type ServiceLifetime int

const (
	// Singleton specifies that a single instance of the component will be created.
	// The instance is created on first request and cached for the lifetime of the container.
	// Interfaces bound to a singleton resolve to that same instance.
	Singleton ServiceLifetime = iota

	// Scoped specifies that one instance is created for each scope.
	// In web applications, this typically means one instance per HTTP request.
	Scoped

	// Transient specifies that a new instance is created every time the
	// component or one of its interfaces is resolved.
	Transient
)

// String returns the string representation of the ServiceLifetime.
func (sl ServiceLifetime) String() string {
	switch sl {
	case Singleton:
		return "Singleton"
	case Scoped:
		return "Scoped"
	case Transient:
		return "Transient"
	default:
		return fmt.Sprintf("Unknown(%d)", int(sl))
	}
}

// IsValid checks if the service lifetime is valid.
func (sl ServiceLifetime) IsValid() bool {
	return sl >= Singleton && sl <= Transient
}

// ParseLifetime parses the textual form of a lifetime. Matching is case-insensitive.
func ParseLifetime(s string) (ServiceLifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "singleton":
		return Singleton, nil
	case "scoped":
		return Scoped, nil
	case "transient":
		return Transient, nil
	default:
		return 0, LifetimeError{Value: s}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (sl ServiceLifetime) MarshalText() ([]byte, error) {
	if !sl.IsValid() {
		return nil, LifetimeError{Value: int(sl)}
	}

	return []byte(sl.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sl *ServiceLifetime) UnmarshalText(text []byte) error {
	lifetime, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}

	*sl = lifetime
	return nil
}

// MarshalJSON implements json.Marshaler.
func (sl ServiceLifetime) MarshalJSON() ([]byte, error) {
	text, err := sl.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (sl *ServiceLifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return sl.UnmarshalText([]byte(s))
}
