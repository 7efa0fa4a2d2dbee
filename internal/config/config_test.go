package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerConfig(), cfg)
}

func TestWriteThenLoadServerConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actorwired.toml")

	cfg := ServerConfig{
		ListenAddr:         "0.0.0.0:17000",
		EnableRegistration: false,
		DBPath:             "/tmp/actors.db",
		LogDir:             "/tmp/logs",
		Actors: []ActorEntry{
			{Name: "greeter", Path: "builtin:greeter", InProcess: true},
		},
	}
	require.NoError(t, WriteServerConfig(path, cfg))

	loaded, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadClientConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultClientConfig(), cfg)
}

func TestClientConfigAddr(t *testing.T) {
	cfg := ClientConfig{Host: "10.0.0.5", Port: 16001}
	require.Equal(t, "10.0.0.5:16001", cfg.Addr())
}

func TestDefaultConfigPathsUnderHome(t *testing.T) {
	serverPath, err := DefaultServerConfigPath()
	require.NoError(t, err)
	require.Contains(t, serverPath, ".actorwire")
	require.Contains(t, serverPath, "actorwired.toml")

	clientPath, err := DefaultClientConfigPath()
	require.NoError(t, err)
	require.Contains(t, clientPath, ".actorwire")
	require.Contains(t, clientPath, "client.toml")
}
