package cmd

import (
	"fmt"
	"github.com/csnewman/craftlauncher/update"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a new version is available",
	Args:  cobra.NoArgs,
	RunE:  executeCheck,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download and apply the latest version",
	Args:  cobra.NoArgs,
	RunE:  executeUpdate,
}

func executeCheck(cmd *cobra.Command, args []string) error {
	coordinator, err := di.Get[*update.Coordinator](container)
	if err != nil {
		return err
	}

	available, err := coordinator.CheckForUpdate(cmd.Context())
	if err != nil {
		return err
	}

	if available {
		fmt.Fprintln(cmd.OutOrStdout(), "Update available")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Up to date")
	}
	return nil
}

func executeUpdate(cmd *cobra.Command, args []string) error {
	coordinator, err := di.Get[*update.Coordinator](container)
	if err != nil {
		return err
	}

	progress, finish := newProgress(cmd.ErrOrStderr(), "Updating")
	err = coordinator.Update(cmd.Context(), progress)
	finish()

	return err
}
