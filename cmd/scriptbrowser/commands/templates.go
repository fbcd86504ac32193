package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/host"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

func newNewCmd(g *globalFlags) *cobra.Command {
	var (
		in   string
		sets []string
	)

	cmd := &cobra.Command{
		Use:               "new <template> [name]",
		Short:             MsgNewShort,
		Long:              MsgNewLong,
		Example:           MsgNewExample,
		GroupID:           "templates",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: templateNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := parseSet(sets)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g, in, nil)
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			entry, err := s.ctrl.CreateFromTemplate(args[0], name, ctx)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "created", Entry: entry})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", MsgFlagIn)
	cmd.Flags().StringArrayVar(&sets, "set", nil, MsgFlagSet)
	return cmd
}

func newInsertCmd(g *globalFlags) *cobra.Command {
	var (
		atCursor bool
		line     int
		col      int
		sets     []string
	)

	cmd := &cobra.Command{
		Use:               "insert <template>",
		Short:             MsgInsertShort,
		Long:              MsgInsertLong,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.doc == "" {
				return errors.New(errors.ErrNoActiveDocument, "insert needs a document, pass --doc")
			}
			ctx, err := parseSet(sets)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g, "", nil)
			if err != nil {
				return err
			}
			doc, _ := s.host.ActiveDocumentPath()
			if atCursor {
				if err := s.host.SetCursor(doc, host.Cursor{Line: line, Col: col}); err != nil {
					return err
				}
			}
			text, err := s.ctrl.InsertTemplate(args[0], ctx, atCursor)
			if err != nil {
				return err
			}
			if err := s.host.Save(doc); err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.Insertion{
				Template: args[0],
				Document: doc,
				AtCursor: atCursor,
				Text:     text,
			})
		},
	}
	cmd.Flags().BoolVar(&atCursor, "at-cursor", false, MsgFlagAtCursor)
	cmd.Flags().IntVar(&line, "line", 1, MsgFlagLine)
	cmd.Flags().IntVar(&col, "col", 1, MsgFlagCol)
	cmd.Flags().StringArrayVar(&sets, "set", nil, MsgFlagSet)
	return cmd
}

func newTemplatesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   MsgTemplatesShort,
		Long:    MsgTemplatesLong,
		GroupID: "templates",
	}
	cmd.AddCommand(newTemplatesListCmd(g))
	cmd.AddCommand(newTemplatesShowCmd(g))
	cmd.AddCommand(newTemplatesAddCmd(g))
	cmd.AddCommand(newTemplatesRmCmd(g))
	cmd.AddCommand(newTemplatesRenderCmd(g))
	return cmd
}

func newTemplatesListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgTemplatesLsShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(views.NewTemplateList(s.catalog))
		},
	}
}

func newTemplatesShowCmd(g *globalFlags) *cobra.Command {
	var body bool

	cmd := &cobra.Command{
		Use:               "show <template>",
		Short:             MsgTemplatesShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			t, err := s.catalog.Get(args[0])
			if err != nil {
				return err
			}
			info := views.NewTemplateInfo(t, body)
			return s.renderer.RenderResult(&info)
		},
	}
	cmd.Flags().BoolVar(&body, "body", true, MsgFlagBody)
	return cmd
}

func newTemplatesAddCmd(g *globalFlags) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: MsgTemplatesAddShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			body, err := readBody(cmd.InOrStdin(), from)
			if err != nil {
				return err
			}
			t, err := s.catalog.Add(args[0], body)
			if err != nil {
				return err
			}
			return s.renderer.RenderMessage(fmt.Sprintf(MsgTemplateAdded, t.Path))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", MsgFlagFrom)
	return cmd
}

// readBody reads a template body from path, or from in when path is
// empty or "-".
func readBody(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "failed to read template from stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(paths.ExpandHome(path))
	if err != nil {
		return "", errors.FromFS(err, errors.ErrNotFound, path)
	}
	return string(data), nil
}

func newTemplatesRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "rm <template>",
		Aliases:           []string{"remove"},
		Short:             MsgTemplatesRmShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			if err := s.catalog.Remove(args[0]); err != nil {
				return err
			}
			return s.renderer.RenderMessage(fmt.Sprintf(MsgTemplateRemoved, args[0]))
		},
	}
}

func newTemplatesRenderCmd(g *globalFlags) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:               "render <template>",
		Short:             MsgTemplatesRenderShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := parseSet(sets)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			text, err := s.engine.Render(args[0], ctx)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.Rendered{Template: args[0], Text: text})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, MsgFlagSet)
	return cmd
}

// templateNamesCompletion completes template names from the catalog.
func templateNamesCompletion(g *globalFlags) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := newSession(cmd, g, nil)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return s.catalog.Names(), cobra.ShellCompDirectiveNoFileComp
	}
}
