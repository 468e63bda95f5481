package cmd

import (
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/classpath"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/csnewman/craftlauncher/launch"
	"github.com/csnewman/craftlauncher/update"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"io/fs"
	"strings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the installed version and whether the game can be launched",
	Args:  cobra.NoArgs,
	RunE:  executeStatus,
}

func executeStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	coordinator, err := di.Get[*update.Coordinator](container)
	if err != nil {
		return err
	}

	launcher, err := di.Get[*launch.Launcher](container)
	if err != nil {
		return err
	}

	paths, err := di.Get[config.Paths](container)
	if err != nil {
		return err
	}

	profile, err := di.Get[*config.Profile](container)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Game directory:", paths.GameDir)

	if installed := coordinator.Installed(); installed != nil {
		fmt.Fprintf(out, "Installed:      %s (%s)", installed.Version, installed.Description)
		if !installed.RetrievedAt.IsZero() {
			fmt.Fprintf(out, ", retrieved %s", humanize.Time(installed.RetrievedAt))
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "Installed:      nothing")
	}

	counts, err := integrity.FolderStatus(paths.GameDir, profile.ContentFolders)
	if err != nil {
		return err
	}
	for _, folder := range profile.ContentFolders {
		fmt.Fprintf(out, "  %-10s %s files\n", folder, humanize.Comma(int64(counts[folder])))
	}

	report := launcher.Locator().Preflight(cmd.Context())
	if report.RuntimeErr != nil {
		fmt.Fprintln(out, "Runtime:        missing:", report.RuntimeErr)
	} else {
		fmt.Fprintf(out, "Runtime:        %s (%s)\n", report.Runtime, report.RuntimeVersion)
	}
	if report.ClientErr != nil {
		fmt.Fprintln(out, "Client:         missing:", report.ClientErr)
	} else {
		fmt.Fprintln(out, "Client:        ", report.Client)
	}
	if len(report.MissingLibraries) > 0 {
		fmt.Fprintln(out, "Missing:       ", strings.Join(report.MissingLibraries, ", "))
	}
	if len(report.MissingDirs) > 0 {
		fmt.Fprintln(out, "Missing dirs:  ", strings.Join(report.MissingDirs, ", "))
	}

	entries, err := classpath.ReadIndirection(paths.IndirectionArchive())
	switch {
	case err == nil:
		fmt.Fprintf(out, "Classpath:      indirection archive with %d entries\n", len(entries))
	case !errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, "Classpath:      indirection archive unreadable:", err)
	}

	if !report.OK() {
		return errors.New("game cannot be launched")
	}
	return nil
}
