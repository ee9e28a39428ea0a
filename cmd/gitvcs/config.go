package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/gitvcs"
	"github.com/aretw0/gitvcs/pkg/core"
)

var configCmd = &cobra.Command{
	Use:   "config [key=value...]",
	Short: "Show or change adapter settings",
	Long: `Without arguments, print the settings as YAML.
With key=value pairs, change and save them. Keys: git_executable, update_strategy,
stash_on_update, add_confirmation, delete_confirmation, ignore (comma separated), debounce.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vcs, err := openVcs(cmd, gitvcs.WithListener(false))
		if err != nil {
			return err
		}
		cfg := vcs.Configurable()

		if len(args) > 0 {
			s := cfg.Settings()
			for _, arg := range args {
				if err := setKey(&s, arg); err != nil {
					return err
				}
			}
			if err := cfg.Edit(s); err != nil {
				return err
			}
			if !cfg.IsModified() {
				fmt.Fprintln(cmd.OutOrStdout(), "Settings unchanged.")
				return nil
			}
			if err := cfg.Apply(); err != nil {
				return err
			}
		}

		data, err := yaml.Marshal(cfg.Settings())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func setKey(s *core.Settings, arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", arg)
	}
	var err error
	switch key {
	case "git_executable":
		s.GitExecutable = value
	case "update_strategy":
		s.UpdateStrategy = core.UpdateStrategy(value)
	case "stash_on_update":
		s.StashOnUpdate, err = strconv.ParseBool(value)
	case "add_confirmation":
		s.AddConfirmation, err = core.ParseConfirmationValue(value)
	case "delete_confirmation":
		s.DeleteConfirmation, err = core.ParseConfirmationValue(value)
	case "ignore":
		s.Ignore = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				s.Ignore = append(s.Ignore, p)
			}
		}
	case "debounce":
		s.Debounce, err = time.ParseDuration(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
