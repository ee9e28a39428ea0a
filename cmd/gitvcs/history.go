package main

import (
	"fmt"
	"time"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var (
	logLimit int
	blameRev string
)

var logCmd = &cobra.Command{
	Use:   "log <file>",
	Short: "Show the revisions of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		revs, err := vcs.HistoryProvider().History(cmd.Context(), args[0], logLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range revs {
			fmt.Fprintf(out, "%s %s %-16s %s\n", r.Revision.Short(), r.Date.Format(time.DateOnly), r.Author, r.Message)
		}
		return nil
	},
}

var blameCmd = &cobra.Command{
	Use:   "blame <file>",
	Short: "Annotate each line of a file with its last revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		var rev *gitvcs.Revision
		if blameRev != "" {
			if rev, err = vcs.RevisionSelector().SelectRevision(cmd.Context(), "", blameRev); err != nil {
				return err
			}
		}
		ann, err := vcs.AnnotationProvider().Annotate(cmd.Context(), args[0], rev)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, l := range ann.Lines {
			fmt.Fprintf(out, "%s %-16s %4d| %s\n", l.Revision.Short(), l.Author, l.LineNo, l.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd, blameCmd)
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "Maximum number of revisions")
	blameCmd.Flags().StringVarP(&blameRev, "rev", "r", "", "Annotate at this revision")
}
