package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// versionCmd prints the caller's installed qprahost version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the currently installed qprahost version",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	if len(args) != 0 {
		fmt.Println("the version command does not take any arguments")
		os.Exit(1)
	}
	fmt.Println(currentReleaseVersion)
}
