package cmd

import (
	"context"
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/csnewman/craftlauncher/util/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
	"os/signal"
)

var rootCmd = &cobra.Command{
	Use:               "craftlauncher",
	Short:             "Keep a modded game installation up to date and launch it",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var dataDir string
var debug bool
var metricsFile string

var logger *zap.Logger
var closeLog func() error
var container *di.Container

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Launcher data directory (default <user config>/.craftlauncher)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if dataDir == "" {
		d, err := config.DefaultDataDir()
		if err != nil {
			return err
		}
		dataDir = d
	}

	l, closeFn, err := logging.New(config.Paths{DataDir: dataDir}.LogDir(), os.Stderr, debug)
	if err != nil {
		return err
	}
	logger, closeLog = l, closeFn

	c, err := newContainer(l.Sugar(), dataDir)
	if err != nil {
		return err
	}
	container = c

	logger.Sugar().Debugw("Starting", "command", cmd.Name(), "data", dataDir)
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if metricsFile != "" && container != nil {
		if pc, err := di.Get[*metrics.PrometheusCollector](container); err == nil {
			if err := pc.WriteTextfile(metricsFile); err != nil {
				logger.Sugar().Warnw("Failed to write metrics", "path", metricsFile, "error", err)
			}
		}
	}

	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		teardown(rootCmd, nil)
		os.Exit(1)
	}
}
