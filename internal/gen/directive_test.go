package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/autoinject"
	"github.com/junioryono/autoinject/internal/gen"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name string
		line string
		want gen.Directive
		ok   bool
	}{
		{
			name: "not a directive",
			line: "// Service does things.",
		},
		{
			name: "go directive",
			line: "//go:generate injectgen",
		},
		{
			name: "lifetime only",
			line: "//autoinject:singleton",
			want: gen.Directive{Lifetime: autoinject.Singleton},
			ok:   true,
		},
		{
			name: "case insensitive lifetime",
			line: "//autoinject:Scoped",
			want: gen.Directive{Lifetime: autoinject.Scoped},
			ok:   true,
		},
		{
			name: "all fields",
			line: "//autoinject:transient as=Reader,io.Closer ctor=Open value",
			want: gen.Directive{
				Lifetime:    autoinject.Transient,
				As:          []string{"Reader", "io.Closer"},
				Constructor: "Open",
				Value:       true,
			},
			ok: true,
		},
		{
			name: "empty interface entries",
			line: "//autoinject:scoped as=Reader,,",
			want: gen.Directive{Lifetime: autoinject.Scoped, As: []string{"Reader"}},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := gen.ParseDirective(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirective_Invalid(t *testing.T) {
	for _, line := range []string{
		"//autoinject:",
		"//autoinject:pooled",
		"//autoinject:singleton as",
		"//autoinject:singleton ctor=",
		"//autoinject:singleton value=true",
		"//autoinject:singleton name=x",
	} {
		t.Run(line, func(t *testing.T) {
			_, ok, err := gen.ParseDirective(line)
			assert.True(t, ok)
			assert.ErrorIs(t, err, gen.ErrInvalidDirective)
		})
	}
}
