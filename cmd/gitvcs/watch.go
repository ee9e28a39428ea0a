package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/gitvcs/pkg/adapters/fs"
	"github.com/aretw0/gitvcs/pkg/adapters/lifecycle"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in step with created and deleted files",
	Long: `Activate the working tree listener until interrupted. New files are scheduled
for addition and deleted files for removal according to the confirmation settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		vcs, err := openVcs(cmd)
		if err != nil {
			return err
		}
		if err := vcs.Activate(ctx); err != nil {
			return err
		}
		defer func() {
			if err := vcs.Deactivate(); err != nil {
				vcs.ShowErrors([]error{err}, "deactivate")
			}
		}()

		listener, ok := vcs.ActiveListener().(*fs.Listener)
		if !ok {
			return errors.New("listener is not available")
		}

		source := lifecycle.NewSource(listener.Events())
		if err := source.Start(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", vcs.Project().Root)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-source.Events():
				if !ok {
					return context.Cause(ctx)
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
