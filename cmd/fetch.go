package cmd

import (
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/repository"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/spf13/cobra"
	"path/filepath"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <manifest path>",
	Short: "Download a single manifest entry",
	Args:  cobra.ExactArgs(1),
	RunE:  executeFetch,
}

var fetchOutput string

func init() {
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "Destination Directory")
	fetchCmd.MarkFlagRequired("output")
}

func executeFetch(cmd *cobra.Command, args []string) error {
	client, err := di.Get[*repository.Client](container)
	if err != nil {
		return err
	}

	cfg, err := di.Get[config.Config](container)
	if err != nil {
		return err
	}

	manifest, err := client.GetManifest(cmd.Context(), cfg.ManifestURL)
	if err != nil {
		return err
	}

	entry, ok := manifest.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%s is not listed in version %s", args[0], manifest.Version)
	}

	if entry.Url == "" {
		return fmt.Errorf("%s has no download url", entry.Path)
	}

	client.Output = cmd.ErrOrStderr()

	dest := filepath.Join(fetchOutput, filepath.FromSlash(entry.Path))
	if err := client.Download(cmd.Context(), entry.Url, dest, entry.Hash, nil); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Downloaded", repository.Describe(entry), "to", dest)
	return nil
}
