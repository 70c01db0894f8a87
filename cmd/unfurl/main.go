// Command unfurl provides a CLI for safely extracting archives.
package main

import (
	"os"

	"github.com/meigma/unfurl/cmd/unfurl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
