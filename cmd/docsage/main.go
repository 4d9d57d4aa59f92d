// Command docsage is a grounded document question-answering CLI.
package main

import (
	"os"

	"github.com/docsage-labs/docsage-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
