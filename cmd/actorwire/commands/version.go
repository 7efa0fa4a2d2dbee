package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actorwire/actorwire/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("actorwire version %s", build.Version())

	if build.Commit != "" {
		fmt.Printf(" commit=%s", build.Commit)
	} else if build.CommitHash != "" {
		fmt.Printf(" commit=%s", build.CommitHash)
	}

	if build.GoVersion != "" {
		fmt.Printf(" go=%s", build.GoVersion)
	}
	fmt.Println()
}
