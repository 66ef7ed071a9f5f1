// Command waypoint runs branching surveys from the command line and over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/waypoint/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
