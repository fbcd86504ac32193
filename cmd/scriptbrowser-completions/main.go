package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/scriptbrowser/cmd/scriptbrowser/commands"
)

// Prints the completion script for one shell, for packaging.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <bash|zsh|fish|powershell>\n", os.Args[0])
		os.Exit(2)
	}

	rootCmd := commands.NewRootCmd()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs([]string{"completion", os.Args[1]})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s completion: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}
