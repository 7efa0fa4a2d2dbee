package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <path>",
	Short: "Load an actor module from path and register it as name",
	Long: `register calls system.register_actor(name, path). path may be a
compiled plugin (.so) file, or "builtin:<name>" for an actor compiled
directly into the server binary. The server must have been started with
runtime registration enabled.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	system := c.Actor("system")
	if system == nil {
		return fmt.Errorf("system actor not available; server was not started with registration enabled")
	}

	if _, err := system.Call("register_actor", []any{name, path}, nil); err != nil {
		return err
	}
	fmt.Printf("registered %q from %s\n", name, path)
	return nil
}
