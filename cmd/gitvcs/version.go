package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/gitvcs"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitvcs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gitvcs version %s\n", strings.TrimSpace(gitvcs.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
