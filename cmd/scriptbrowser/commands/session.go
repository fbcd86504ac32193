package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/browser"
	"github.com/arthur-debert/scriptbrowser/pkg/config"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/filesystem"
	"github.com/arthur-debert/scriptbrowser/pkg/host"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/templates"
	"github.com/arthur-debert/scriptbrowser/pkg/trash"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/arthur-debert/scriptbrowser/pkg/ui"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/confirmations"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	verbosity  int
	configFile string
	root       string
	doc        string
	format     string
	showHidden bool
	yes        bool
}

// session is everything a command needs: the loaded config, the
// filesystem, a document host and a browser controller on top of them.
type session struct {
	flags    *globalFlags
	dirs     paths.Dirs
	cfg      *config.Config
	fs       types.FS
	host     *host.FileHost
	catalog  *templates.Catalog
	engine   *templates.Engine
	ctrl     *browser.Controller
	renderer ui.Renderer
	dialog   confirmations.Dialog
}

// configPath is the file config commands read and write.
func (g *globalFlags) configPath(dirs paths.Dirs) string {
	if g.configFile != "" {
		return paths.ExpandHome(g.configFile)
	}
	return dirs.ConfigFile()
}

// loadConfig reads the config layers and applies the flags the user set.
// extra carries command specific overrides.
func loadConfig(cmd *cobra.Command, g *globalFlags, dirs paths.Dirs, extra map[string]interface{}) (*config.Config, error) {
	overrides := map[string]interface{}{}
	for k, v := range extra {
		overrides[k] = v
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		root, err := paths.Normalize(g.root)
		if err != nil {
			return nil, err
		}
		overrides["root.path"] = root
	}
	if flags.Changed("show-hidden") {
		overrides["listing.show_hidden"] = g.showHidden
	}
	if flags.Changed("format") {
		overrides["output.format"] = g.format
	}
	return config.Load(config.LoadOptions{
		ConfigFile: g.configPath(dirs),
		Overrides:  overrides,
	})
}

// newSession wires a session without opening the browser.
func newSession(cmd *cobra.Command, g *globalFlags, overrides map[string]interface{}) (*session, error) {
	dirs := paths.NewDirs()
	cfg, err := loadConfig(cmd, g, dirs, overrides)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid output format")
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	docs := host.New(fsys)
	if g.doc != "" {
		doc, err := paths.Normalize(g.doc)
		if err != nil {
			return nil, err
		}
		if _, err := docs.OpenDocument(doc); err != nil {
			return nil, err
		}
	}

	catalog, err := templates.NewCatalog(fsys, templates.CatalogOptions{
		Dir:        cfg.TemplatesDir(dirs),
		Extensions: cfg.Templates.Extensions,
	})
	if err != nil {
		return nil, err
	}
	if err := catalog.Load(); err != nil {
		return nil, err
	}
	engine := templates.NewEngine(catalog, cfg.Templates.Defaults).WithStrict(cfg.Templates.Strict)

	opts := browser.OptionsFromConfig(cfg)
	opts.FS = fsys
	opts.Host = docs
	opts.Resolver = paths.NewResolver(fsys, cfg.ResolverOptions())
	opts.Trash = trash.For(fsys, cfg.Delete.TrashDir)
	opts.Engine = engine

	var dialog confirmations.Dialog
	if g.yes {
		dialog = &confirmations.StaticDialog{Answer: true}
	} else {
		dialog = confirmations.NewConsoleDialog(cmd.OutOrStdout(), cmd.InOrStdin())
	}

	log.Debug().
		Str("config", g.configPath(dirs)).
		Str("root", cfg.Root.Path).
		Str("doc", g.doc).
		Str("format", format.String()).
		Msg("Session ready")

	return &session{
		flags:    g,
		dirs:     dirs,
		cfg:      cfg,
		fs:       fsys,
		host:     docs,
		catalog:  catalog,
		engine:   engine,
		ctrl:     browser.New(opts),
		renderer: renderer,
		dialog:   dialog,
	}, nil
}

// openSession wires a session and opens the browser. A non-empty dir is
// entered after opening.
func openSession(cmd *cobra.Command, g *globalFlags, dir string, overrides map[string]interface{}) (*session, error) {
	s, err := newSession(cmd, g, overrides)
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.Open(); err != nil {
		if errors.IsErrorCode(err, errors.ErrNoRootAvailable) {
			return nil, fmt.Errorf("%w\n%s", err, MsgNoRoot)
		}
		return nil, err
	}
	if dir != "" && dir != "." {
		if err := s.ctrl.Enter(dir); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// lookupAll resolves names relative to the viewed folder.
func (s *session) lookupAll(names []string) ([]types.Entry, error) {
	entries := make([]types.Entry, 0, len(names))
	for _, name := range names {
		entry, err := s.ctrl.Lookup(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseSet turns repeated --set key=value flags into a template context.
func parseSet(pairs []string) (map[string]string, error) {
	ctx := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrBadSet, pair)
		}
		ctx[key] = value
	}
	return ctx, nil
}
