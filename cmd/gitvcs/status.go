package main

import (
	"fmt"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List local changes grouped by change list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		lists, err := vcs.ChangeProvider().Changes(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(lists) == 0 {
			fmt.Fprintln(out, "Working tree clean.")
			return nil
		}
		for _, list := range lists {
			fmt.Fprintf(out, "%s:\n", list.Name)
			for _, ch := range list.Changes {
				staged := " "
				if ch.Staged {
					staged = "+"
				}
				if ch.OldPath != "" {
					fmt.Fprintf(out, "  %s %-12s %s -> %s\n", staged, ch.Status, ch.OldPath, ch.Path)
				} else {
					fmt.Fprintf(out, "  %s %-12s %s\n", staged, ch.Status, ch.Path)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
