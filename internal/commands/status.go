package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/record/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open session",
	Long: `Show the open session with a live timer. Press e to end it, q to leave it running.
Use --no-ui for a plain text summary.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		out := cmd.OutOrStdout()

		current, err := a.tracker.Current()
		if err != nil {
			return err
		}
		if current == nil {
			fmt.Fprintln(out, "No open session")
			return nil
		}

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			fmt.Fprint(out, tui.RenderStatus(*current, time.Now()))
			return nil
		}

		outcome, err := tui.RunTimerTUI(*current)
		if err != nil {
			return err
		}
		if outcome != tui.OutcomeEnd {
			fmt.Fprintf(out, "Session #%d is still open. Use 'record end' to close it.\n", current.ID)
			return nil
		}

		id, err := a.tracker.End()
		if err != nil {
			return err
		}
		ended := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess)).Render("ended")
		fmt.Fprintf(out, "%s #%d\n", ended, id)
		return nil
	}),
}

func init() {
	statusCmd.Flags().Bool("no-ui", false, "Print the status without the interactive timer")
}
