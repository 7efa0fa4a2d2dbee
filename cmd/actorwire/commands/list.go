package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every actor loaded on the server",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	names := c.ListActors()
	if outputFormat == "json" {
		return outputJSON(names)
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
