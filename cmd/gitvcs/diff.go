package main

import (
	"context"
	"fmt"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <file> [from] [to]",
	Short: "Show a unified diff of a file",
	Long: `Show a unified diff of a file between two revisions.
Without revisions the working tree is compared with HEAD; with one revision the
working tree is compared with it.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		path := args[0]

		from, err := resolve(ctx, vcs, args, 1)
		if err != nil {
			return err
		}
		to, err := resolve(ctx, vcs, args, 2)
		if err != nil {
			return err
		}

		diff, err := vcs.DiffProvider().Diff(ctx, path, from, to)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	},
}

// resolve turns args[i] into a revision; a missing argument yields nil.
func resolve(ctx context.Context, vcs *gitvcs.Vcs, args []string, i int) (*gitvcs.Revision, error) {
	if len(args) <= i {
		return nil, nil
	}
	return vcs.RevisionSelector().SelectRevision(ctx, "", args[i])
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
