package cmd

import (
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/launch"
	"github.com/csnewman/craftlauncher/util/di"
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the game, falling back to simpler configurations on failure",
	Args:  cobra.NoArgs,
	RunE:  executeLaunch,
}

var launchWait bool

func init() {
	launchCmd.Flags().BoolVar(&launchWait, "wait", true, "Wait for the game to exit")
}

type printMonitor struct {
	cmd *cobra.Command
}

func (m printMonitor) OnStateChange(s launch.State, strategy string) {
	if strategy != "" {
		fmt.Fprintf(m.cmd.ErrOrStderr(), "%s (%s)\n", s, strategy)
	}
}

func (m printMonitor) OnAttemptExit(r launch.AttemptResult) {
	if r.Kind != nil {
		fmt.Fprintf(m.cmd.ErrOrStderr(), "%s failed: %s\n", r.Strategy, *r.Kind)
	}
}

func executeLaunch(cmd *cobra.Command, args []string) error {
	launcher, err := di.Get[*launch.Launcher](container)
	if err != nil {
		return err
	}

	launcher.Orchestrator().SetMonitor(printMonitor{cmd: cmd})

	session, err := launcher.Launch(cmd.Context())

	var exhausted *launch.ExhaustedError
	if errors.As(err, &exhausted) {
		fmt.Fprintln(cmd.OutOrStdout(), exhausted.Diagnosis)
		if exhausted.ReportPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Report written to", exhausted.ReportPath)
		}
		return exhausted
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Game running with %s strategy (pid %d)\n", session.Plan.Strategy, session.Pid())

	if !launchWait {
		return nil
	}

	code, err := session.Wait(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Game exited with code", code)
	return nil
}
