// Pinlog reconciles a Slack channel's pinned items into a persisted
// append-only log.
//
// Usage:
//
//	pinlog sync       Reconcile the channel's pins into the log
//	pinlog history    Show the persisted pin log
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pinlog/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
