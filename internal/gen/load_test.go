package gen_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/autoinject"
	"github.com/junioryono/autoinject/internal/gen"
)

const fixtures = "testdata/fixtures"

func TestLoader_Load(t *testing.T) {
	loader := &gen.Loader{Dir: fixtures}

	pkgs, err := loader.Load(context.Background(), "./...")

	require.Error(t, err)
	assert.ErrorContains(t, err, "example.com/fixtures/broken")
	assert.ErrorContains(t, err, "pooled")
	assert.ErrorContains(t, err, "interface Missing not found")
	assert.ErrorContains(t, err, "constructor NewNothing not found")
	assert.ErrorContains(t, err, "interface Contract cannot be a component")
	assert.ErrorIs(t, err, gen.ErrInvalidDirective)
	assert.NotContains(t, err.Error(), "RemovedType")

	require.Len(t, pkgs, 1)
	pkg := pkgs[0]
	assert.Equal(t, "users", pkg.Name)
	assert.Equal(t, "example.com/fixtures/users", pkg.PkgPath)
	assert.Equal(t, "users", filepath.Base(pkg.Dir))

	require.Len(t, pkg.Components, 3)

	service := pkg.Components[0]
	assert.Equal(t, "Service", service.Name)
	assert.True(t, service.Pointer)
	assert.Equal(t, autoinject.Singleton, service.Lifetime)
	assert.Equal(t, "NewService", service.Constructor)
	assert.Equal(t, []gen.Interface{
		{PkgPath: "example.com/fixtures/users", PkgName: "users", Name: "Reader"},
		{PkgPath: "fmt", PkgName: "fmt", Name: "Stringer"},
	}, service.Interfaces)

	handler := pkg.Components[1]
	assert.Equal(t, "Handler", handler.Name)
	assert.Equal(t, autoinject.Scoped, handler.Lifetime)
	assert.Equal(t, "OpenHandler", handler.Constructor)
	assert.Equal(t, []gen.Interface{{PkgPath: "io", PkgName: "io", Name: "Closer"}}, handler.Interfaces)

	options := pkg.Components[2]
	assert.Equal(t, "Options", options.Name)
	assert.False(t, options.Pointer)
	assert.Equal(t, autoinject.Transient, options.Lifetime)
	assert.Empty(t, options.Constructor, "NewOptions returns a different type")
}

func TestLoader_Load_StaleOutput(t *testing.T) {
	t.Run("previous output is ignored", func(t *testing.T) {
		loader := &gen.Loader{Dir: fixtures}

		pkgs, err := loader.Load(context.Background(), "./users")
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Len(t, pkgs[0].Components, 3)
	})

	t.Run("other output name keeps the file", func(t *testing.T) {
		loader := &gen.Loader{Dir: fixtures, Output: "catalog_gen.go"}

		pkgs, err := loader.Load(context.Background(), "./users")
		require.Error(t, err)
		assert.ErrorContains(t, err, "RemovedType")
		assert.Empty(t, pkgs)
	})
}

func TestGenerate_DryRun(t *testing.T) {
	written, err := gen.Generate(context.Background(), gen.Config{
		Dir:      fixtures,
		Patterns: []string{"./users"},
		DryRun:   true,
	})
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, gen.DefaultOutput, filepath.Base(written[0]))
}
