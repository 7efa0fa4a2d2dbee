package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/actorload"
	"github.com/actorwire/actorwire/internal/exampleactor"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	loader := actorload.NewLoader()
	loader.RegisterBuiltin("greeter", func() actorinfo.Descriptor { return exampleactor.NewGreeter() })

	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.EnableRegistration = true

	srv := New(cfg, loader)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	return srv
}

func TestServerMountsCoreAlways(t *testing.T) {
	srv := newTestServer(t)
	_, ok := srv.Registry().Get("core")
	require.True(t, ok)
}

func TestServerMountsSystemWhenEnabled(t *testing.T) {
	srv := newTestServer(t)
	_, ok := srv.Registry().Get("system")
	require.True(t, ok)
}

func TestServerOmitsSystemWhenDisabled(t *testing.T) {
	loader := actorload.NewLoader()
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.EnableRegistration = false

	srv := New(cfg, loader)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	_, ok := srv.Registry().Get("system")
	require.False(t, ok)
}

func TestServerRegisterActor(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.RegisterActor("greeter2", "builtin:greeter"))

	_, ok := srv.Registry().Get("greeter2")
	require.True(t, ok)
}

func TestServerStartTwiceFails(t *testing.T) {
	srv := newTestServer(t)
	require.Error(t, srv.Start())
}

func TestServerStopIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}

func TestDecodeRequestRejectsShortRequest(t *testing.T) {
	_, err := decodeRequest([][]byte{[]byte("core")})
	require.Error(t, err)
}

func TestDecodeRequestZeroArgCall(t *testing.T) {
	req, err := decodeRequest([][]byte{[]byte("core"), []byte("list_actors")})
	require.NoError(t, err)
	require.Equal(t, "core", req.ActorName)
	require.Equal(t, "list_actors", req.MethodName)
	require.Empty(t, req.Args)
}

func TestDecodeRequestMalformedPayload(t *testing.T) {
	_, err := decodeRequest([][]byte{
		[]byte("core"), []byte("info"), []byte("not json"),
	})
	require.Error(t, err)
}
