package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lcdpong/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version information",
	Run:   startVersion,
}

func init() {
	root.AddCommand(versionCmd)
}

func startVersion(cmd *cobra.Command, args []string) {
	fmt.Print(version.String("client"))
	if ts := version.HumanRevisionTime(); ts != "" {
		fmt.Printf(" (%s)", ts)
	}
	fmt.Println()
}
