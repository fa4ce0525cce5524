package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/models"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print today's records",
	Long: `Print today's sessions, oldest first, one tab-separated line each:

  date  name  start  end  case  task  contents

The end column is empty while a session is open. The name comes from
HOTOKU_RECORD_NAME (or "name" in ~/.record/config.yaml) and is required.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		name, err := a.cfg.DisplayName()
		if err != nil {
			return err
		}

		var lines []string
		if day, _ := cmd.Flags().GetString("date"); day != "" {
			t, err := time.ParseInLocation(models.DayLayout, day, time.Local)
			if err != nil {
				return recerr.NewValidationError("date", day, "expected YYYY-MM-DD", err)
			}
			lines, err = a.tracker.ListDay(t, name)
			if err != nil {
				return err
			}
		} else {
			lines, err = a.tracker.ListToday(name)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	}),
}

func init() {
	printCmd.Flags().String("date", "", "Print another day instead of today (YYYY-MM-DD)")
}
