package main

import (
	"fmt"

	"github.com/spf13/cobra"
	sessionredis "github.com/weekian/telegraf-session-redis"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sessionctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sessionctl version %s\n", sessionredis.Version)
		},
	}
}
