package autoinject

import (
	"log/slog"
	"reflect"
)

// Option configures scanning and registration.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	onRegistered  func(lifetime ServiceLifetime, serviceType, implType reflect.Type)
	onTypeDropped func(name string, err error)
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLogger sets the logger used for debug records. Errors are returned to
// the caller and never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OnRegistered sets a callback invoked after each successful container
// registration. For concrete registrations serviceType equals implType.
func OnRegistered(fn func(lifetime ServiceLifetime, serviceType, implType reflect.Type)) Option {
	return func(o *options) {
		o.onRegistered = fn
	}
}

// OnTypeDropped sets a callback invoked for each catalog entry that could not
// be resolved and was dropped from the scan.
func OnTypeDropped(fn func(name string, err error)) Option {
	return func(o *options) {
		o.onTypeDropped = fn
	}
}
