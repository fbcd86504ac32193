package templates

import (
	"embed"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

//go:embed builtin
var builtinFS embed.FS

const (
	builtinDir = "builtin"
	// ManifestName is the optional manifest inside a template folder.
	ManifestName = "templates.toml"
)

// DefaultExtensions are the user template extensions used when none are
// configured.
var DefaultExtensions = []string{".py"}

// manifestEntry is one table of templates.toml.
type manifestEntry struct {
	Description string            `toml:"description"`
	Defaults    map[string]string `toml:"defaults"`
}

// CatalogOptions configure a Catalog.
type CatalogOptions struct {
	// Dir is the user template folder. Empty disables user templates.
	Dir        string
	Extensions []string
}

// Catalog holds the built-in and user templates.
type Catalog struct {
	fs   types.FS
	opts CatalogOptions

	builtins  map[string]*Template
	templates map[string]*Template
}

// NewCatalog creates a catalog with the built-ins loaded. Call Load to
// read the user folder.
func NewCatalog(fsys types.FS, opts CatalogOptions) (*Catalog, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	builtins, err := loadBuiltins()
	if err != nil {
		return nil, err
	}
	c := &Catalog{fs: fsys, opts: opts, builtins: builtins}
	c.templates = cloneAll(builtins)
	return c, nil
}

// Dir returns the user template folder.
func (c *Catalog) Dir() string {
	return c.opts.Dir
}

func loadBuiltins() (map[string]*Template, error) {
	manifest := map[string]manifestEntry{}
	if data, err := builtinFS.ReadFile(path.Join(builtinDir, ManifestName)); err == nil {
		if manifest, err = parseManifest(data, "builtin"); err != nil {
			return nil, err
		}
	}

	entries, err := builtinFS.ReadDir(builtinDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to read built-in templates")
	}

	builtins := make(map[string]*Template, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == ManifestName {
			continue
		}
		body, err := builtinFS.ReadFile(path.Join(builtinDir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read built-in template %s", e.Name())
		}
		t := &Template{Name: e.Name(), Body: string(body), Source: SourceBuiltin}
		applyManifest(t, manifest)
		builtins[t.Name] = t
	}
	return builtins, nil
}

func parseManifest(data []byte, where string) (map[string]manifestEntry, error) {
	manifest := map[string]manifestEntry{}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateInvalid, "invalid template manifest in %s", where).
			WithDetail("manifest", where)
	}
	return manifest, nil
}

func applyManifest(t *Template, manifest map[string]manifestEntry) {
	entry, ok := manifest[t.Name]
	if !ok {
		return
	}
	t.Description = entry.Description
	if len(entry.Defaults) > 0 {
		t.Defaults = entry.Defaults
	}
}

// Load rereads the user folder. A missing folder is not an error.
func (c *Catalog) Load() error {
	logger := logging.GetLogger("templates.catalog")
	templates := cloneAll(c.builtins)

	if c.opts.Dir == "" {
		c.templates = templates
		return nil
	}

	entries, err := c.fs.ReadDir(c.opts.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("dir", c.opts.Dir).Msg("No user template folder")
			c.templates = templates
			return nil
		}
		return errors.FromFS(err, errors.ErrDirectoryNotFound, c.opts.Dir)
	}

	manifest := map[string]manifestEntry{}
	manifestPath := filepath.Join(c.opts.Dir, ManifestName)
	if data, err := c.fs.ReadFile(manifestPath); err == nil {
		if manifest, err = parseManifest(data, manifestPath); err != nil {
			return err
		}
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !c.accepts(e.Name()) {
			continue
		}
		p := filepath.Join(c.opts.Dir, e.Name())
		body, err := c.fs.ReadFile(p)
		if err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Skipping unreadable template")
			continue
		}
		t := &Template{Name: e.Name(), Body: string(body), Source: SourceUser, Path: p}
		if b, ok := c.builtins[t.Name]; ok {
			t.Description = b.Description
		}
		applyManifest(t, manifest)
		templates[t.Name] = t
		count++
	}

	c.templates = templates
	logger.Debug().Str("dir", c.opts.Dir).Int("user_templates", count).Msg("Loaded templates")
	return nil
}

func (c *Catalog) accepts(name string) bool {
	if paths.IsHiddenName(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range c.opts.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// List returns every template sorted by name.
func (c *Catalog) List() []*Template {
	list := make([]*Template, 0, len(c.templates))
	for _, t := range c.templates {
		list = append(list, t.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Names returns the template names sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the template called name. The extension may be left out
// when it is one of the configured ones.
func (c *Catalog) Get(name string) (*Template, error) {
	if t, ok := c.lookup(name); ok {
		return t.clone(), nil
	}
	return nil, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name).
		WithDetail("template", name)
}

func (c *Catalog) lookup(name string) (*Template, bool) {
	if t, ok := c.templates[name]; ok {
		return t, true
	}
	if filepath.Ext(name) == "" {
		for _, ext := range c.opts.Extensions {
			if t, ok := c.templates[name+ext]; ok {
				return t, true
			}
		}
	}
	return nil, false
}

// Add writes a user template and reloads. A name without an extension
// gets the first configured one. Existing user templates are replaced.
func (c *Catalog) Add(name, body string) (*Template, error) {
	if c.opts.Dir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no user template folder configured")
	}
	if err := paths.ValidateName(name); err != nil {
		return nil, err
	}
	if name == ManifestName {
		return nil, errors.Newf(errors.ErrInvalidName, "%s is reserved", name)
	}
	if filepath.Ext(name) == "" {
		name += c.opts.Extensions[0]
	}
	if !c.accepts(name) {
		return nil, errors.Newf(errors.ErrInvalidName, "template %s must use one of %s",
			name, strings.Join(c.opts.Extensions, ", ")).WithDetail("name", name)
	}

	if err := c.fs.MkdirAll(c.opts.Dir, 0755); err != nil {
		return nil, errors.FromFS(err, errors.ErrDirectoryNotFound, c.opts.Dir)
	}
	p := filepath.Join(c.opts.Dir, name)
	if err := c.fs.WriteFile(p, []byte(body), 0644); err != nil {
		return nil, errors.FromFS(err, errors.ErrDirectoryNotFound, p)
	}

	logger := logging.GetLogger("templates.catalog")
	logger.Info().Str("template", name).Str("path", p).Msg("Added template")
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c.Get(name)
}

// Remove deletes a user template. Built-ins cannot be removed; removing a
// user template that overrides a built-in brings the built-in back.
func (c *Catalog) Remove(name string) error {
	t, ok := c.lookup(name)
	if !ok {
		return errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name).
			WithDetail("template", name)
	}
	if t.Source == SourceBuiltin {
		return errors.Newf(errors.ErrInvalidInput, "built-in template %s cannot be removed", t.Name).
			WithDetail("template", t.Name)
	}

	if err := c.fs.Remove(t.Path); err != nil {
		return errors.FromFS(err, errors.ErrTemplateNotFound, t.Path)
	}

	logger := logging.GetLogger("templates.catalog")
	logger.Info().Str("template", t.Name).Msg("Removed template")
	return c.Load()
}

func cloneAll(in map[string]*Template) map[string]*Template {
	out := make(map[string]*Template, len(in))
	for k, t := range in {
		out[k] = t.clone()
	}
	return out
}
