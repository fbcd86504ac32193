package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/scriptbrowser/cmd/scriptbrowser/commands"
	"github.com/arthur-debert/scriptbrowser/internal/version"
)

// Writes scriptbrowser.1 to stdout for packaging.
func main() {
	rootCmd := commands.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SCRIPTBROWSER",
		Section: "1",
		Source:  "scriptbrowser " + version.Version,
		Manual:  "scriptbrowser manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
