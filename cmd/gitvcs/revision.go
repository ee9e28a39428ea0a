package main

import (
	"fmt"
	"time"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var parseRevCmd = &cobra.Command{
	Use:   "parse-rev <token>",
	Short: "Decode a revision token",
	Long: `Decode a revision token: a bare hash (up to 40 characters) or a
"<date>[<hash>" composite carrying the commit date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, err := gitvcs.ParseRevision(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if rev == nil {
			fmt.Fprintln(out, "no revision")
			return nil
		}
		fmt.Fprintf(out, "hash: %s\n", rev.Hash)
		if rev.HasTimestamp() {
			fmt.Fprintf(out, "date: %s\n", rev.Timestamp.Format(time.RFC3339))
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "rev <ref> [file]",
	Short: "Resolve a reference to a revision token",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		rev, err := vcs.RevisionSelector().SelectRevision(cmd.Context(), path, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rev.String())
		return nil
	},
}

var rootDirCmd = &cobra.Command{
	Use:   "root",
	Short: "Print the repository root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := gitvcs.FindRoot(workDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseRevCmd, selectCmd, rootDirCmd)
}
