package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start CASE TASK CONTENTS",
	Short: "Record the start of a task",
	Long: `Record the start of a task. A session that is still open is closed first.

TASK is one of: meeting, coding, interview, report, analysis, moving, review, trip.

Examples:
  record start acme coding "fix login bug"
  record start acme meeting "weekly sync"`,
	Args: cobra.ExactArgs(3),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := a.tracker.Start(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "started #%d\n", id)
		return nil
	}),
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Record the end of the current task",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := a.tracker.End()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ended #%d\n", id)
		return nil
	}),
}
