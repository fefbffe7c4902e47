package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waitumusicctl",
	Short: "Operate the WaituMusic access-control service",
	Long: `Operational helpers for the WaituMusic access-control service.

Configuration is read from the same environment variables as the server
(PG_DSN, REDIS_ADDR, ...).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
