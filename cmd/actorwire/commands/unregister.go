package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unregisterCmd = &cobra.Command{
	Use:   "unregister <name>",
	Short: "Remove a previously registered actor",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnregister,
}

func runUnregister(cmd *cobra.Command, args []string) error {
	name := args[0]

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	system := c.Actor("system")
	if system == nil {
		return fmt.Errorf("system actor not available; server was not started with registration enabled")
	}

	if _, err := system.Call("unregister_actor", []any{name}, nil); err != nil {
		return err
	}
	fmt.Printf("unregistered %q\n", name)
	return nil
}
