// Package commands implements the actorwire CLI client: one cobra command
// per operation (list, doc, call, register, unregister), connecting to a
// daemon over the RESP wire via internal/client.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// serverAddr overrides the configured connection target.
	serverAddr string

	// clientConfigPath overrides the default ~/.actorwire/client.toml.
	clientConfigPath string

	// outputFormat controls result rendering: text or json.
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "actorwire",
	Short: "actorwire RPC client",
	Long: `actorwire is the command-line client for an actorwired server.

Use this CLI to list loaded actors, inspect their methods, call them, and
(when the server allows it) register or unregister actors at runtime.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&serverAddr, "addr", "",
		"Server address host:port (default: from client config, or 127.0.0.1:16000)",
	)
	rootCmd.PersistentFlags().StringVar(
		&clientConfigPath, "config", "",
		"Path to client.toml (default: ~/.actorwire/client.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
	rootCmd.AddCommand(versionCmd)
}
