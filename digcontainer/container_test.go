package digcontainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/autoinject"
	"github.com/junioryono/autoinject/digcontainer"
	"github.com/junioryono/autoinject/internal/testutil"
)

func fixtureModule(greeter autoinject.ServiceLifetime) *autoinject.Module {
	return autoinject.NewModule("github.com/junioryono/autoinject/digcontainer/fixtures",
		autoinject.Component[*testutil.Clock](autoinject.Singleton,
			autoinject.WithConstructor(testutil.NewClock),
		),
		autoinject.Component[*testutil.GreetingService](greeter,
			autoinject.WithConstructor(testutil.NewGreetingService),
			autoinject.As(new(testutil.Greeter)),
		),
		autoinject.Component[*testutil.RequestContext](autoinject.Scoped,
			autoinject.As(new(testutil.Closer), new(testutil.Named)),
		),
	)
}

func setup(t *testing.T, greeter autoinject.ServiceLifetime) *digcontainer.Container {
	t.Helper()

	container := digcontainer.New()
	result, err := autoinject.AddInjectedServices(autoinject.NewLedger(), fixtureModule(greeter), container)
	require.NoError(t, err)
	require.Equal(t, autoinject.Result{RegisteredServiceCount: 3, RegisteredInterfaceCount: 3}, result)

	return container
}

func TestContainer_Singleton(t *testing.T) {
	container := setup(t, autoinject.Singleton)

	service, err := digcontainer.Resolve[*testutil.GreetingService](container)
	require.NoError(t, err)

	greeter, err := digcontainer.Resolve[testutil.Greeter](container)
	require.NoError(t, err)

	clock, err := digcontainer.Resolve[*testutil.Clock](container)
	require.NoError(t, err)

	testutil.AssertSameInstance(t, service, greeter)
	testutil.AssertSameInstance(t, clock, service.Clock)

	scope, err := container.NewScope()
	require.NoError(t, err)

	fromScope, err := digcontainer.Resolve[testutil.Greeter](scope)
	require.NoError(t, err)
	testutil.AssertSameInstance(t, greeter, fromScope)

	lifetime, ok := container.Lifetime(autoinject.TypeOf[testutil.Greeter]())
	require.True(t, ok)
	assert.Equal(t, autoinject.Singleton, lifetime)
}

func TestContainer_Scoped(t *testing.T) {
	container := setup(t, autoinject.Singleton)

	first, err := container.NewScope()
	require.NoError(t, err)
	second, err := container.NewScope()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	request, err := digcontainer.Resolve[*testutil.RequestContext](first)
	require.NoError(t, err)
	closer, err := digcontainer.Resolve[testutil.Closer](first)
	require.NoError(t, err)
	named, err := digcontainer.Resolve[testutil.Named](first)
	require.NoError(t, err)

	testutil.AssertSameInstance(t, request, closer)
	testutil.AssertSameInstance(t, request, named)

	other, err := digcontainer.Resolve[testutil.Closer](second)
	require.NoError(t, err)
	testutil.AssertDistinctInstances(t, closer, other)

	_, err = digcontainer.Resolve[*testutil.RequestContext](container)
	assert.Error(t, err, "scoped components are not visible from the root")
}

func TestContainer_Transient(t *testing.T) {
	container := setup(t, autoinject.Transient)

	a, err := digcontainer.Resolve[*testutil.GreetingService](container)
	require.NoError(t, err)
	b, err := digcontainer.Resolve[*testutil.GreetingService](container)
	require.NoError(t, err)
	testutil.AssertDistinctInstances(t, a, b)
	testutil.AssertSameInstance(t, a.Clock, b.Clock)

	scope, err := container.NewScope()
	require.NoError(t, err)

	g1, err := digcontainer.Resolve[testutil.Greeter](scope)
	require.NoError(t, err)
	g2, err := digcontainer.Resolve[testutil.Greeter](scope)
	require.NoError(t, err)
	testutil.AssertDistinctInstances(t, g1, g2)
	assert.Equal(t, "hello", g1.Greet())
}

func TestContainer_Idempotent(t *testing.T) {
	ledger := autoinject.NewLedger()
	container := digcontainer.New()
	module := fixtureModule(autoinject.Singleton)

	_, err := autoinject.AddInjectedServices(ledger, module, container)
	require.NoError(t, err)

	result, err := autoinject.AddInjectedServices(ledger, module, container)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())

	_, err = digcontainer.Resolve[testutil.Greeter](container)
	require.NoError(t, err)
}

func TestContainer_Duplicates(t *testing.T) {
	container := digcontainer.New()
	requestType := autoinject.TypeOf[*testutil.RequestContext]()
	ctor := autoinject.ConstructorAs(reflectValue(func() *testutil.RequestContext {
		return &testutil.RequestContext{}
	}), requestType)

	require.NoError(t, container.AddScoped(requestType, requestType, ctor))
	assert.ErrorIs(t, container.AddScoped(requestType, requestType, ctor), digcontainer.ErrAlreadyRegistered)
	assert.ErrorIs(t, container.AddTransient(requestType, requestType, ctor), digcontainer.ErrAlreadyRegistered)

	clockType := autoinject.TypeOf[*testutil.Clock]()
	clockCtor := reflectValue(testutil.NewClock)
	require.NoError(t, container.AddSingleton(clockType, clockCtor))
	assert.Error(t, container.AddSingleton(clockType, clockCtor), "dig rejects a second provider")
}

func TestResolve_Missing(t *testing.T) {
	_, err := digcontainer.Resolve[*testutil.Clock](digcontainer.New())
	assert.Error(t, err)
}
