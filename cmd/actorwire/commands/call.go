package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	callArgsJSON   string
	callKwargsJSON string
)

var callCmd = &cobra.Command{
	Use:   "call <actor> <method>",
	Short: "Invoke a method on a loaded actor",
	Long: `call invokes <actor>.<method> with the given positional and named
arguments. Both --args and --kwargs take a JSON literal:

  actorwire call greeter add_two_ints --args '[1, 2]'
  actorwire call example modify --kwargs '{"obj": {"attr": 3}, "n": 10}'`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callArgsJSON, "args", "[]", "JSON array of positional arguments")
	callCmd.Flags().StringVar(&callKwargsJSON, "kwargs", "{}", "JSON object of named arguments")
}

func runCall(cmd *cobra.Command, args []string) error {
	actorName, methodName := args[0], args[1]

	var callArgs []any
	if err := json.Unmarshal([]byte(callArgsJSON), &callArgs); err != nil {
		return fmt.Errorf("parsing --args: %w", err)
	}
	var callKwargs map[string]any
	if err := json.Unmarshal([]byte(callKwargsJSON), &callKwargs); err != nil {
		return fmt.Errorf("parsing --kwargs: %w", err)
	}

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	proxy := c.Actor(actorName)
	if proxy == nil {
		return fmt.Errorf("actor %q not found on server", actorName)
	}

	result, err := proxy.Call(methodName, callArgs, callKwargs)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(result)
	}
	fmt.Println(result)
	return nil
}
