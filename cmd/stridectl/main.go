package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/stridelog/stridelog/cmd/stridectl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stridectl",
		Short:         "Operator tools for stridelog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
