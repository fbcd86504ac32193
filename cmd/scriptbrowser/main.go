package main

import (
	"os"

	"github.com/arthur-debert/scriptbrowser/cmd/scriptbrowser/commands"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/text"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer, _ := text.NewStyled(os.Stderr, false)
		_ = renderer.RenderError(err)
		os.Exit(1)
	}
}
