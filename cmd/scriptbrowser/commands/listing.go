package commands

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/search"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

func newLsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [dir]",
		Aliases: []string{"list"},
		Short:   MsgLsShort,
		Example: MsgLsExample,
		GroupID: "browse",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, firstArg(args), nil)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(views.NewListing(s.ctrl))
		},
	}
}

func newTreeCmd(g *globalFlags) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:     "tree [dir]",
		Short:   MsgTreeShort,
		GroupID: "browse",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, firstArg(args), nil)
			if err != nil {
				return err
			}
			if err := expandAll(s, depth); err != nil {
				return err
			}
			return s.renderer.RenderResult(views.NewListing(s.ctrl))
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, MsgFlagDepth)
	return cmd
}

// expandAll expands folders level by level. depth 0 expands everything.
func expandAll(s *session, depth int) error {
	for level := 0; depth == 0 || level < depth; level++ {
		var pending []string
		for _, e := range s.ctrl.Entries() {
			if e.IsDir() && !e.Symlink && e.Level == level && !s.ctrl.Expanded(e.Path) {
				pending = append(pending, e.Path)
			}
		}
		if len(pending) == 0 {
			return nil
		}
		for _, p := range pending {
			entry, err := s.ctrl.Lookup(p)
			if err != nil {
				return err
			}
			if _, err := s.ctrl.ToggleExpand(entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		recursive bool
		fuzzy     bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:     "search <query> [dir]",
		Aliases: []string{"find"},
		Short:   MsgSearchShort,
		Long:    MsgSearchLong,
		GroupID: "browse",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("recursive") {
				overrides["search.recursive"] = recursive
			}
			if fuzzy {
				overrides["search.mode"] = string(search.ModeFuzzy)
			}
			if cmd.Flags().Changed("limit") {
				overrides["search.max_results"] = limit
			}

			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			s, err := openSession(cmd, g, dir, overrides)
			if err != nil {
				return err
			}
			if err := s.ctrl.SetQuery(args[0]); err != nil {
				return err
			}
			return s.renderer.RenderResult(views.NewListing(s.ctrl))
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, MsgFlagRecursive)
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, MsgFlagFuzzy)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, MsgFlagLimit)
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
