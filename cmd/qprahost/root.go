package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentReleaseVersion is printed by the version subcommand.
const currentReleaseVersion = "v0.1.0"

// rootCmd is the base for all qprahost commands.
var rootCmd = &cobra.Command{
	Use:   "qprahost [command]",
	Short: "qprahost runs and inspects the qpracore Khepra/QPRA emulator core",
	Long:  "qprahost is a headless command-line host for qpracore: it loads a cartridge image, drives the core's fixed-rate cycle loop, and can dump framebuffer snapshots to PNG.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `qprahost help` for more information")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs qprahost according to the user's command/subcommand/flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
