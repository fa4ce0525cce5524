package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/balkashynov/record/internal/parser"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for record",
	Long:  `Display detailed help for all record commands, task keywords and settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
record - work session recorder

COMMANDS:

  start CASE TASK CONTENTS    Record the start of a task
                              (closes the open session first)
  end                         Record the end of the current task
  print                       Print today's records, tab separated
    --date                    Another day (YYYY-MM-DD)
  status                      Show the open session with a live timer
    --no-ui                   Plain text output
  help                        Show this help

  Global flags:
    -v, --verbose             Debug lines in the trace log
    --db PATH                 Storage file

TASK KEYWORDS:

`)
	for _, keyword := range parser.TaskKeywords() {
		label, _ := parser.TaskLabel(keyword)
		fmt.Fprintf(w, "  %-12s %s\n", keyword, label)
	}
	fmt.Fprint(w, `
SETTINGS (environment, ~/.record/.env or ~/.record/config.yaml):

  HOTOKU_RECORD_DBFILE        Storage file (default ~/.record/db.sqlite)
  HOTOKU_RECORD_NAME          Name printed on each line (required by print)
  HOTOKU_RECORD_LOGFILE       Trace log (default ~/.record/log.txt)
  HOTOKU_RECORD_DEBUG         Debug lines in the trace log

Example:
  record start acme coding "fix login bug"
  record end
  record print

`)
}
