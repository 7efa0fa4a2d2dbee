package commands

import (
	"encoding/json"
	"fmt"

	"github.com/actorwire/actorwire/internal/client"
	"github.com/actorwire/actorwire/internal/config"
)

// connect resolves the configured server address and dials it, the same
// resolution order every subcommand needs: --addr flag, then client.toml,
// then the client package's built-in default.
func connect() (*client.Client, error) {
	addr := serverAddr
	if addr == "" {
		path := clientConfigPath
		if path == "" {
			p, err := config.DefaultClientConfigPath()
			if err != nil {
				return nil, err
			}
			path = p
		}

		cfg, err := config.LoadClientConfig(path)
		if err != nil {
			return nil, err
		}
		addr = cfg.Addr()
	}

	c, err := client.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return c, nil
}

// outputJSON prints v as indented JSON.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
