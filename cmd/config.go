package cmd

import (
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change launcher settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one or all settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  executeConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  executeConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE:  executeConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func executeConfigGet(cmd *cobra.Command, args []string) error {
	store, err := di.Get[*config.Store](container)
	if err != nil {
		return err
	}

	cfg := store.Get()

	keys := config.Keys
	if len(args) == 1 {
		keys = args
	}

	for _, key := range keys {
		v, err := cfg.Value(key)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
		}
	}

	return nil
}

func executeConfigSet(cmd *cobra.Command, args []string) error {
	store, err := di.Get[*config.Store](container)
	if err != nil {
		return err
	}

	cfg, err := store.Get().With(args[0], args[1])
	if err != nil {
		return err
	}

	return store.Set(cfg)
}

func executeConfigPath(cmd *cobra.Command, args []string) error {
	store, err := di.Get[*config.Store](container)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	return nil
}
