package commands

import (
	"embed"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/internal/version"
	"github.com/arthur-debert/scriptbrowser/pkg/cobrax/topics"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "scriptbrowser",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.CommandPath()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&g.configFile, "config", "", MsgFlagConfig)
	pf.StringVarP(&g.root, "root", "r", "", MsgFlagRoot)
	pf.StringVar(&g.doc, "doc", "", MsgFlagDoc)
	pf.StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)
	pf.BoolVarP(&g.showHidden, "show-hidden", "a", false, MsgFlagShowHidden)
	pf.BoolVarP(&g.yes, "yes", "y", false, MsgFlagYes)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "browse", Title: "BROWSING:"})
	rootCmd.AddGroup(&cobra.Group{ID: "files", Title: "FILES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "templates", Title: "TEMPLATES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newLsCmd(g))
	rootCmd.AddCommand(newTreeCmd(g))
	rootCmd.AddCommand(newSearchCmd(g))
	rootCmd.AddCommand(newBrowseCmd(g))
	rootCmd.AddCommand(newRootsCmd(g))

	rootCmd.AddCommand(newMkfileCmd(g))
	rootCmd.AddCommand(newMkdirCmd(g))
	rootCmd.AddCommand(newRmCmd(g))
	rootCmd.AddCommand(newMvCmd(g))
	rootCmd.AddCommand(newRenameCmd(g))
	rootCmd.AddCommand(newDupCmd(g))

	rootCmd.AddCommand(newNewCmd(g))
	rootCmd.AddCommand(newInsertCmd(g))
	rootCmd.AddCommand(newTemplatesCmd(g))

	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd(g))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		}
		if tm, err := topics.InitializeWithOptions(rootCmd, sub, opts); err == nil {
			rootCmd.AddCommand(newTopicsCmd(tm))
		} else {
			log.Debug().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}
