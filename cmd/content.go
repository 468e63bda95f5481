package cmd

import (
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/spf13/cobra"
	"io"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the content folders with the reference tree",
	Args:  cobra.NoArgs,
	RunE:  executeVerify,
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Restore missing and corrupted content files from the reference tree",
	Args:  cobra.NoArgs,
	RunE:  executeRepair,
}

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Replace the content folders with a fresh copy of the reference tree",
	Args:  cobra.NoArgs,
	RunE:  executeResync,
}

var contentFolders []string
var verifyList bool

func init() {
	for _, c := range []*cobra.Command{verifyCmd, repairCmd, resyncCmd} {
		c.Flags().StringSliceVar(&contentFolders, "folders", nil, "Folders to process (default from profile)")
	}
	verifyCmd.Flags().BoolVar(&verifyList, "list", false, "List every missing and corrupted file")
}

type contentDeps struct {
	engine  *integrity.Engine
	paths   config.Paths
	folders []string
}

func resolveContent() (*contentDeps, error) {
	engine, err := di.Get[*integrity.Engine](container)
	if err != nil {
		return nil, err
	}

	paths, err := di.Get[config.Paths](container)
	if err != nil {
		return nil, err
	}

	profile, err := di.Get[*config.Profile](container)
	if err != nil {
		return nil, err
	}

	if paths.SourceDir == "" {
		return nil, errors.New("no reference tree configured, set SourceDir with 'config set SourceDir <path>'")
	}

	folders := contentFolders
	if len(folders) == 0 {
		folders = profile.ContentFolders
	}

	return &contentDeps{engine: engine, paths: paths, folders: folders}, nil
}

func printReport(w io.Writer, report *integrity.Report, list bool) {
	for _, folder := range report.Order {
		fr := report.Folders[folder]
		fmt.Fprintf(w, "%-10s %d correct, %d missing, %d corrupted\n", folder, len(fr.Correct), len(fr.Missing), len(fr.Corrupted))

		if !list {
			continue
		}
		for _, p := range fr.Missing {
			fmt.Fprintf(w, "  missing   %s/%s\n", folder, p)
		}
		for _, p := range fr.Corrupted {
			fmt.Fprintf(w, "  corrupted %s/%s\n", folder, p)
		}
	}
}

func executeVerify(cmd *cobra.Command, args []string) error {
	deps, err := resolveContent()
	if err != nil {
		return err
	}

	report, err := deps.engine.Verify(cmd.Context(), deps.paths.SourceDir, deps.paths.GameDir, deps.folders)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, verifyList)

	if !report.IsValid() {
		return fmt.Errorf("%d files need repair", report.Pending())
	}
	return nil
}

func executeRepair(cmd *cobra.Command, args []string) error {
	deps, err := resolveContent()
	if err != nil {
		return err
	}

	report, err := deps.engine.Verify(cmd.Context(), deps.paths.SourceDir, deps.paths.GameDir, deps.folders)
	if err != nil {
		return err
	}

	progress, finish := newProgress(cmd.ErrOrStderr(), "Repairing")
	_, err = deps.engine.Repair(cmd.Context(), report, deps.paths.SourceDir, deps.paths.GameDir, progress)
	finish()
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, false)
	return nil
}

func executeResync(cmd *cobra.Command, args []string) error {
	deps, err := resolveContent()
	if err != nil {
		return err
	}

	progress, finish := newProgress(cmd.ErrOrStderr(), "Resyncing")
	_, err = deps.engine.ForceResync(cmd.Context(), deps.paths.SourceDir, deps.paths.GameDir, deps.folders, progress)
	finish()

	return err
}
