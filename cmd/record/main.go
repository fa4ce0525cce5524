package main

import (
	"fmt"
	"os"

	"github.com/balkashynov/record/internal/commands"
	recerr "github.com/balkashynov/record/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	if err := commands.Execute(); err != nil {
		if recerr.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "record: %v\n", err)
		}
		os.Exit(1)
	}
}
