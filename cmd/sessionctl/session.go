package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <key>",
		Short: "Print the session stored under a key",
		Long:  `Loads the session stored under <key> (e.g. "42:42" or "42") and prints it as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.open(false)
			if err != nil {
				return err
			}
			defer rs.Close()

			key := args[0]
			s, err := rs.Store().Load(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", key, err)
			}
			if s.IsEmpty() {
				fmt.Fprintf(cmd.OutOrStdout(), "No session stored under '%s'.\n", key)
				return nil
			}

			// Pretty print JSON
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove one or more sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.open(false)
			if err != nil {
				return err
			}
			defer rs.Close()

			failed := 0
			for _, key := range args {
				if err := rs.Store().Clear(cmd.Context(), key); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", key, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", key)
			}
			if failed > 0 {
				return fmt.Errorf("failed to remove %d of %d sessions", failed, len(args))
			}
			return nil
		},
	}
}
