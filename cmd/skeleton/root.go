package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skeleton",
		Short:         "Skeleton backend: username/password auth with JWT sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}
