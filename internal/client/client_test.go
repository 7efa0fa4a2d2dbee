package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/actorload"
	"github.com/actorwire/actorwire/internal/exampleactor"
	"github.com/actorwire/actorwire/internal/server"
)

func newTestServer(t *testing.T) string {
	t.Helper()

	loader := actorload.NewLoader()
	loader.RegisterBuiltin("greeter", func() actorinfo.Descriptor { return exampleactor.NewGreeter() })
	loader.RegisterBuiltin("example", func() actorinfo.Descriptor { return exampleactor.NewExample() })

	cfg := server.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.EnableRegistration = true

	srv := server.New(cfg, loader)
	require.NoError(t, srv.Start())
	require.NoError(t, srv.RegisterActor("greeter", "builtin:greeter"))
	require.NoError(t, srv.RegisterActor("example", "builtin:example"))
	t.Cleanup(func() { srv.Stop() })

	return srv.Addr()
}

func TestDialDiscoversActors(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	names := c.ListActors()
	require.Contains(t, names, "core")
	require.Contains(t, names, "system")
	require.Contains(t, names, "greeter")
	require.Contains(t, names, "example")
}

func TestActorProxyCall(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	proxy := c.Actor("greeter")
	require.NotNil(t, proxy)

	result, err := proxy.Call("hi", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", result)
}

func TestActorProxyCallWithArgs(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	proxy := c.Actor("greeter")
	result, err := proxy.Call("add_two_ints", []any{2, 3}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 5, result)
}

func TestActorProxyCallUnknownMethodReturnsRemoteException(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	proxy := c.Actor("greeter")
	_, err = proxy.Call("nonexistent", nil, nil)
	require.Error(t, err)

	var remoteErr *RemoteException
	require.ErrorAs(t, err, &remoteErr)
}

func TestRegisterDTOReconstructsResult(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	c.RegisterDTO("Item", func() actorinfo.FromMappingDTO { return &exampleactor.Item{} })

	proxy := c.Actor("example")
	result, err := proxy.Call("modify", []any{
		map[string]any{"attr": 1}, 42,
	}, nil)
	require.NoError(t, err)

	item, ok := result.(*exampleactor.Item)
	require.True(t, ok)
	require.EqualValues(t, 42, item.Attr)
}

func TestActorProxyCallAsync(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	proxy := c.Actor("greeter")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Fire several calls before awaiting any of them; the client
	// serializes them on the wire, so every future must still complete.
	f1 := proxy.CallAsync("add_two_ints", []any{1, 2}, nil)
	f2 := proxy.CallAsync("add_two_ints", []any{3, 4}, nil)

	v1, err := f1.Await(ctx).Unpack()
	require.NoError(t, err)
	require.EqualValues(t, 3, v1)

	v2, err := f2.Await(ctx).Unpack()
	require.NoError(t, err)
	require.EqualValues(t, 7, v2)
}

func TestSystemRegisterActorOverWire(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	sys := c.Actor("system")
	require.NotNil(t, sys)

	_, err = sys.Call("register_actor", []any{"greeter2", "builtin:greeter"}, nil)
	require.NoError(t, err)

	require.NoError(t, c.Reload())
	require.Contains(t, c.ListActors(), "greeter2")
}

func TestDocReturnsActorInfoMapping(t *testing.T) {
	c, err := Dial(newTestServer(t))
	require.NoError(t, err)
	defer c.Close()

	info, err := c.Doc("greeter")
	require.NoError(t, err)
	require.Equal(t, "greeter", info["name"])
	require.Contains(t, info, "methods")
}
