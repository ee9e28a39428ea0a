package main

import (
	"fmt"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var statusOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Integrate upstream changes",
	Long: `Pull from the upstream branch using the configured strategy (merge or rebase).
With --check only fetch and report how far the branch has diverged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if statusOnly {
			res, err := vcs.StatusEnvironment().Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ahead %d, behind %d\n", res.Ahead, res.Behind)
			return nil
		}

		res, err := vcs.UpdateEnvironment().Update(cmd.Context())
		if err != nil {
			vcs.ShowErrors([]error{err}, "update")
			fmt.Fprintln(cmd.ErrOrStderr(), "Tip: Ensure the branch has an upstream and that merge conflicts are resolved.")
			return err
		}
		if res.UpToDate() {
			fmt.Fprintln(out, "Already up to date.")
			return nil
		}
		fmt.Fprintf(out, "Updated %s..%s, %d file(s) changed.\n", res.Before.Short(), res.After.Short(), len(res.Files))
		for _, f := range res.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&statusOnly, "check", false, "Only report ahead/behind counts")
}
