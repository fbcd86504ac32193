package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/config"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g, nil)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(s.cfg)
		},
	}
}

func newConfigPathCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: MsgConfigPathShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), g.configPath(paths.NewDirs()))
			return err
		},
	}
}

func newConfigInitCmd(g *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath(paths.NewDirs())
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrAlreadyExists, MsgErrConfigExists, path).WithDetail("path", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrConfigSave, "failed to create %s", filepath.Dir(path))
			}
			if err := os.WriteFile(path, []byte(config.DefaultsContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", path)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}
