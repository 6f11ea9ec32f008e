// Command algotrace runs sort and grid-search algorithms and records every
// step as a replayable trace.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/algotrace/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
