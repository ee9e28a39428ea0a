package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/gitvcs"
	"github.com/aretw0/gitvcs/pkg/core"
	"github.com/spf13/cobra"
)

var (
	commitMsg   string
	commitType  string
	commitScope string
	commitBody  string
)

// commitCmd represents the commit command
var commitCmd = &cobra.Command{
	Use:   "commit [files...]",
	Short: "Commit changes",
	Long: `Commit the given files, or everything already staged when no files are given.
With --type the message is formatted as a Conventional Commit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(commitMsg) == "" {
			return errors.New("--message is required")
		}
		msg := commitMsg
		if commitType != "" {
			msg = gitvcs.FormatCommitMessage(commitType, commitScope, commitMsg, commitBody)
		}

		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		rev, err := vcs.CheckinEnvironment().Checkin(cmd.Context(), args, msg)
		if errors.Is(err, core.ErrNothingToCommit) {
			vcs.ShowMessages("Nothing to commit.")
			return nil
		}
		if err != nil {
			vcs.ShowErrors([]error{err}, "commit")
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Committed %s\n", rev.Short())
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback <files...>",
	Short: "Revert local changes of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		lists, err := vcs.ChangeProvider().Changes(cmd.Context())
		if err != nil {
			return err
		}

		wanted := make(map[string]bool, len(args))
		for _, a := range args {
			wanted[a] = true
		}
		var changes []core.Change
		for _, list := range lists {
			for _, ch := range list.Changes {
				if wanted[ch.Path] {
					changes = append(changes, ch)
				}
			}
		}
		if len(changes) == 0 {
			vcs.ShowMessages("No changes to roll back.")
			return nil
		}

		if err := vcs.RollbackEnvironment().Rollback(cmd.Context(), changes); err != nil {
			vcs.ShowErrors([]error{err}, "rollback")
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d file(s).\n", len(changes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd, rollbackCmd)
	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "Commit message (subject with --type)")
	commitCmd.Flags().StringVarP(&commitType, "type", "t", "", "Semantic commit type (feat, fix, docs, ...)")
	commitCmd.Flags().StringVarP(&commitScope, "scope", "s", "", "Semantic commit scope")
	commitCmd.Flags().StringVarP(&commitBody, "body", "b", "", "Commit body")
}
