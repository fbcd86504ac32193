package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/config"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

func newRootsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roots",
		Short:   MsgRootsShort,
		GroupID: "browse",
	}
	cmd.AddCommand(newRootsListCmd(g))
	cmd.AddCommand(newRootsAddCmd(g))
	cmd.AddCommand(newRootsRmCmd(g))
	return cmd
}

func newRootsListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgRootsLsShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			result := &views.Roots{Roots: s.ctrl.Roots()}
			// no resolvable root still lists the configured ones
			if err := s.ctrl.Open(); err == nil {
				result.Active = s.ctrl.Root()
				result.Roots = s.ctrl.Roots()
			}
			if result.Roots == nil {
				result.Roots = []string{}
			}
			return s.renderer.RenderResult(result)
		},
	}
}

// loadFileConfig reads the config without env and flag layers so that
// saving it does not persist them.
func loadFileConfig(g *globalFlags) (*config.Config, string, error) {
	path := g.configPath(paths.NewDirs())
	cfg, err := config.Load(config.LoadOptions{ConfigFile: path, SkipEnv: true})
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newRootsAddCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <dir>",
		Short: MsgRootsAddShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			root, err := paths.NewResolver(s.fs, s.cfg.ResolverOptions()).Canonical(args[0])
			if err != nil {
				return err
			}
			if info, err := s.fs.Stat(root); err != nil || !info.IsDir() {
				return errors.Newf(errors.ErrDirectoryNotFound, "%s is not a directory", root).
					WithDetail("path", root)
			}

			cfg, path, err := loadFileConfig(g)
			if err != nil {
				return err
			}
			if cfg.AddRoot(root) {
				if err := config.Save(cfg, path); err != nil {
					return err
				}
			}
			return s.renderer.RenderMessage(fmt.Sprintf(MsgRootAdded, root))
		},
	}
}

func newRootsRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <dir>",
		Aliases: []string{"remove"},
		Short:   MsgRootsRmShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			cfg, path, err := loadFileConfig(g)
			if err != nil {
				return err
			}

			removed := cfg.RemoveRoot(args[0])
			if abs, err := paths.Normalize(args[0]); err == nil && cfg.RemoveRoot(abs) {
				removed = true
			}
			if canonical, err := paths.NewResolver(s.fs, s.cfg.ResolverOptions()).Canonical(args[0]); err == nil && cfg.RemoveRoot(canonical) {
				removed = true
			}
			if !removed {
				return errors.Newf(errors.ErrNotFound, MsgErrRootNotListed, args[0]).WithDetail("path", args[0])
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			return s.renderer.RenderMessage(fmt.Sprintf(MsgRootRemoved, args[0]))
		},
	}
}
