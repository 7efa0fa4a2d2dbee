package actorload

import (
	"sync"
	"testing"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/stretchr/testify/require"
)

type stubDescriptor struct{}

func (stubDescriptor) ActorMethods() map[string]actorinfo.MethodSpec { return nil }
func (stubDescriptor) DTOTypes() map[string]actorinfo.DTOFactory     { return nil }

func TestLoadBuiltin(t *testing.T) {
	l := NewLoader()
	l.RegisterBuiltin("greeter", func() actorinfo.Descriptor { return stubDescriptor{} })

	m, err := l.Load("builtin:greeter")
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.IsType(t, stubDescriptor{}, m.New())
}

func TestLoadUnknownBuiltin(t *testing.T) {
	l := NewLoader()
	_, err := l.Load("builtin:nonexistent")
	require.Error(t, err)
}

func TestLoadIsIdempotent(t *testing.T) {
	l := NewLoader()
	calls := 0
	l.RegisterBuiltin("counter", func() actorinfo.Descriptor {
		calls++
		return stubDescriptor{}
	})

	m1, err := l.Load("builtin:counter")
	require.NoError(t, err)
	m2, err := l.Load("builtin:counter")
	require.NoError(t, err)

	require.Same(t, m1, m2)
	require.Equal(t, m1.ID, m2.ID)
	// Load only resolves the factory once; New() (not exercised here)
	// would invoke it per call.
	require.Equal(t, 0, calls)
}

func TestStableModuleIDIsDeterministic(t *testing.T) {
	require.Equal(t, stableModuleID("/a/b.so"), stableModuleID("/a/b.so"))
	require.NotEqual(t, stableModuleID("/a/b.so"), stableModuleID("/a/c.so"))
}

func TestReloadDropsCachedModule(t *testing.T) {
	l := NewLoader()
	l.RegisterBuiltin("x", func() actorinfo.Descriptor { return stubDescriptor{} })

	m1, err := l.Load("builtin:x")
	require.NoError(t, err)
	m2, err := l.Reload("builtin:x")
	require.NoError(t, err)
	require.NotSame(t, m1, m2)
	require.Equal(t, m1.ID, m2.ID)
}

func TestLoadConcurrentSamePath(t *testing.T) {
	l := NewLoader()
	l.RegisterBuiltin("concurrent", func() actorinfo.Descriptor { return stubDescriptor{} })

	var wg sync.WaitGroup
	results := make([]*Module, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := l.Load("builtin:concurrent")
			require.NoError(t, err)
			results[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range results[1:] {
		require.Same(t, results[0], m)
	}
}
