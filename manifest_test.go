package autoinject_test

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/autoinject"
	"github.com/junioryono/autoinject/internal/testutil"
)

func fixtureTypes() *autoinject.TypeRegistry {
	types := autoinject.NewTypeRegistry()
	autoinject.RegisterType[testutil.GreetingService](types)
	autoinject.RegisterType[testutil.RequestContext](types)
	autoinject.RegisterType[*testutil.Clock](types)
	autoinject.RegisterType[testutil.Greeter](types)
	autoinject.RegisterType[testutil.Closer](types)
	autoinject.RegisterType[testutil.Named](types)
	return types
}

func TestLoadManifest(t *testing.T) {
	for _, file := range []string{"users.yaml", "users.hcl"} {
		t.Run(file, func(t *testing.T) {
			manifest, err := autoinject.LoadManifest(filepath.Join("testdata", file))
			require.NoError(t, err)

			assert.Equal(t, "github.com/junioryono/autoinject/internal/testutil", manifest.Module)
			require.Len(t, manifest.Components, 4)
			assert.Equal(t, "singleton", manifest.Components[0].Lifetime)
			assert.Equal(t, []string{
				"github.com/junioryono/autoinject/internal/testutil.Closer",
				"github.com/junioryono/autoinject/internal/testutil.Named",
			}, manifest.Components[1].As)
			assert.Empty(t, manifest.Components[2].Lifetime)

			var dropped []string
			container := testutil.NewContainer()
			module := autoinject.NewModuleFromManifest(manifest, autoinject.WithTypes(fixtureTypes()))

			result, err := autoinject.AddInjectedServices(autoinject.NewLedger(), module, container,
				autoinject.OnTypeDropped(func(name string, _ error) { dropped = append(dropped, name) }),
			)
			require.NoError(t, err)
			assert.Equal(t, autoinject.Result{RegisteredServiceCount: 2, RegisteredInterfaceCount: 3}, result)
			assert.Equal(t, []string{"*github.com/acme/missing.Worker"}, dropped)

			greeter := testutil.MustResolve[testutil.Greeter](t, container)
			testutil.AssertSameInstance(t, greeter, testutil.MustResolve[*testutil.GreetingService](t, container))
		})
	}
}

func TestLoadManifestFS(t *testing.T) {
	catalog := "module: app\n" +
		"components:\n" +
		"  - type: \"*github.com/junioryono/autoinject/internal/testutil.Clock\"\n" +
		"    lifetime: Transient\n"

	fsys := fstest.MapFS{
		"catalog/app.yml":  {Data: []byte(catalog)},
		"catalog/app.json": {Data: []byte("{}")},
	}

	manifest, err := autoinject.LoadManifestFS(fsys, "catalog/app.yml")
	require.NoError(t, err)
	assert.Equal(t, "app", manifest.Module)
	require.Len(t, manifest.Components, 1)

	_, err = autoinject.LoadManifestFS(fsys, "catalog/app.json")
	assert.ErrorIs(t, err, autoinject.ErrUnknownManifestFormat)

	_, err = autoinject.LoadManifestFS(fsys, "catalog/missing.yaml")
	require.Error(t, err)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format autoinject.ManifestFormat
	}{
		{"yaml syntax", "components: [", autoinject.ManifestYAML},
		{"hcl syntax", "component {", autoinject.ManifestHCL},
		{"unknown lifetime", "components:\n  - type: a.B\n    lifetime: pooled\n", autoinject.ManifestYAML},
		{"empty type", "components:\n  - lifetime: scoped\n", autoinject.ManifestYAML},
		{"interfaces without lifetime", "components:\n  - type: a.B\n    as: [a.I]\n", autoinject.ManifestYAML},
		{"hcl unknown lifetime", "component \"a.B\" {\n  lifetime = \"pooled\"\n}\n", autoinject.ManifestHCL},
		{"unknown format", "", autoinject.ManifestFormat(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := autoinject.ParseManifest([]byte(tt.data), tt.format, tt.name)
			require.Error(t, err)

			var manifestErr autoinject.ManifestError
			assert.ErrorAs(t, err, &manifestErr)
			assert.Equal(t, tt.name, manifestErr.Source)
		})
	}
}

func TestFromManifest_InvalidLifetimeFailsScan(t *testing.T) {
	manifest := &autoinject.Manifest{
		Module: "handmade",
		Components: []autoinject.ManifestComponent{
			{Type: "*github.com/junioryono/autoinject/internal/testutil.Clock", Lifetime: "forever"},
		},
	}

	container := testutil.NewContainer()
	_, err := autoinject.AddInjectedServices(autoinject.NewLedger(),
		autoinject.NewModuleFromManifest(manifest, autoinject.WithTypes(fixtureTypes())), container)
	require.Error(t, err)
	assert.True(t, autoinject.IsLifetimeError(err))
	assert.Empty(t, container.Calls())
}
