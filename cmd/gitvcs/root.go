package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/gitvcs"
	"github.com/aretw0/gitvcs/pkg/core"
)

var (
	verbose bool
	workDir string
	assume  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitvcs",
	Short: "Git adapter for version-control hosts",
	Long: `gitvcs exposes the Git capabilities a version-control host needs:
changes, checkin, rollback, update, annotate, diff, history and revision parsing.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&assume, "yes", "y", false, "Answer yes to add/remove confirmations")
}

// openVcs builds the adapter for the working directory flag.
func openVcs(cmd *cobra.Command, opts ...gitvcs.Option) (*gitvcs.Vcs, error) {
	confirmer := promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	if assume {
		confirmer = func(_ string, paths []string) []string { return paths }
	}
	base := []gitvcs.Option{
		gitvcs.WithLogger(slog.Default()),
		gitvcs.WithConfirmer(confirmer),
		gitvcs.WithConsole(writerConsole{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}),
	}
	return gitvcs.New(workDir, append(base, opts...)...)
}

// promptConfirmer asks once per batch on the terminal.
func promptConfirmer(in io.Reader, out io.Writer) core.Confirmer {
	reader := bufio.NewReader(in)
	return func(action string, paths []string) []string {
		fmt.Fprintf(out, "%s %d file(s) in git?\n", strings.ToUpper(action[:1])+action[1:], len(paths))
		for _, p := range paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
		fmt.Fprint(out, "[y/N] ")
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return paths
		default:
			return nil
		}
	}
}

// writerConsole prints reports as plain text.
type writerConsole struct {
	out io.Writer
	err io.Writer
}

func (c writerConsole) Info(msg string)  { fmt.Fprintln(c.out, msg) }
func (c writerConsole) Error(msg string) { fmt.Fprintln(c.err, msg) }
