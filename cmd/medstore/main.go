// Command medstore manages a medicine inventory stored in a local SQLite file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/medstore/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
