// Command locvista serves and renders an interactive view of a codebase's
// lines of code over time.
package main

import (
	"fmt"
	"os"

	"github.com/nathansso/locvista/cmd/locvista/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
