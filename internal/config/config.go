// Package config loads the TOML-backed durable configuration the daemon
// and CLI carry alongside their transient flag-based settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ActorEntry is one declaratively registered actor in the daemon's config
// file: a name, the path it loads from, and whether that path names a
// build-time builtin (internal/actorload.RegisterBuiltin) rather than a
// real plugin .so.
type ActorEntry struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	InProcess bool   `toml:"in_process"`
}

// ServerConfig is cmd/actorwired's durable configuration file.
type ServerConfig struct {
	ListenAddr         string       `toml:"listen_addr"`
	EnableRegistration bool         `toml:"enable_registration"`
	DBPath             string       `toml:"db_path"`
	LogDir             string       `toml:"log_dir"`
	Actors             []ActorEntry `toml:"actors"`
}

// DefaultServerConfig mirrors server.DefaultConfig's listen address, with
// runtime registration enabled. DBPath and LogDir are left empty, so the
// daemon's flag defaults apply.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:         "127.0.0.1:16000",
		EnableRegistration: true,
	}
}

// LoadServerConfig reads a TOML server config from path, falling back to
// DefaultServerConfig if the file doesn't exist.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("decoding server config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteServerConfig serializes cfg to path as TOML, creating parent
// directories as needed.
func WriteServerConfig(path string, cfg ServerConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// ClientConfig is the CLI client's connection profile, persisted at
// ~/.actorwire/client.toml by default.
type ClientConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DefaultClientConfig targets the server's default listen address.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Host: "127.0.0.1", Port: 16000}
}

// LoadClientConfig reads a TOML client profile from path, falling back to
// DefaultClientConfig if absent.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("decoding client config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr formats the connection target as host:port for net.Dial.
func (c ClientConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultServerConfigPath returns ~/.actorwire/actorwired.toml.
func DefaultServerConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".actorwire", "actorwired.toml"), nil
}

// DefaultClientConfigPath returns ~/.actorwire/client.toml.
func DefaultClientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".actorwire", "client.toml"), nil
}
