// Command pixed creates, inspects and edits PiXd pixel-art documents.
package main

import (
	"fmt"
	"os"

	"github.com/pixed/pixed/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pixed:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
