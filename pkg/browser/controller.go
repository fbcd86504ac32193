package browser

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/scriptbrowser/pkg/config"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/search"
	"github.com/arthur-debert/scriptbrowser/pkg/templates"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateBrowsing
	StateSearching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBrowsing:
		return "browsing"
	case StateSearching:
		return "searching"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NavigationState is the viewed folder and the active query.
type NavigationState struct {
	Root  string `json:"root" yaml:"root"`
	Dir   string `json:"dir" yaml:"dir"`
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
}

// RelDir returns Dir relative to Root, "." at the root.
func (n NavigationState) RelDir() string {
	return paths.RelativeTo(n.Root, n.Dir)
}

// AtRoot reports whether the root is being viewed.
func (n NavigationState) AtRoot() bool {
	return n.Dir == n.Root
}

// Options wire a controller.
type Options struct {
	FS   types.FS
	Host types.DocumentHost

	Resolver *paths.Resolver
	// ConfiguredRoot takes precedence over the active document.
	ConfiguredRoot string
	// Roots are extra roots the user can switch between.
	Roots []string

	Listing listing.Options
	Search  search.Options

	// AutoOpen opens a selected file in the host.
	AutoOpen bool
	UseTrash bool
	Trash    fileops.Trasher

	// Engine renders templates; nil disables template operations.
	Engine *templates.Engine
}

// OptionsFromConfig maps cfg onto controller options. FS, Host, Resolver,
// Trash and Engine are left to the caller.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ConfiguredRoot: cfg.Root.Path,
		Roots:          cfg.Root.Roots,
		Listing: listing.Options{
			ShowHidden: cfg.Listing.ShowHidden,
			Extensions: cfg.Listing.Extensions,
		},
		Search: search.Options{
			Mode:       search.Mode(cfg.Search.Mode),
			Recursive:  cfg.Search.Recursive,
			MaxResults: cfg.Search.MaxResults,
		},
		AutoOpen: cfg.Browser.AutoOpen,
		UseTrash: cfg.Delete.UseTrash,
	}
}

// Controller drives a browsing session.
type Controller struct {
	opts Options

	state    State
	nav      NavigationState
	lastRoot string
	roots    []string

	lister   *listing.Lister
	searcher *search.Searcher
	ops      *fileops.Ops

	listed   []types.Entry
	view     []types.Entry
	expanded map[string]bool

	generation uint64
	pending    *pendingDelete
	confirmSeq int

	notices []types.Notice
}

// New creates an idle controller.
func New(opts Options) *Controller {
	if opts.Resolver == nil {
		opts.Resolver = paths.NewResolver(opts.FS, paths.ResolverOptions{})
	}
	c := &Controller{opts: opts, expanded: map[string]bool{}}
	for _, r := range opts.Roots {
		if root, err := opts.Resolver.Canonical(r); err == nil {
			c.addRoot(root)
		} else {
			logger := logging.GetLogger("browser")
			logger.Debug().Str("root", r).Msg("Ignoring unusable root")
		}
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Navigation returns the navigation state.
func (c *Controller) Navigation() NavigationState { return c.nav }

// Root returns the active root, empty when idle.
func (c *Controller) Root() string { return c.nav.Root }

// Entries returns the current view: the listing filtered by the query.
func (c *Controller) Entries() []types.Entry {
	out := make([]types.Entry, len(c.view))
	copy(out, c.view)
	return out
}

// Listed returns the unfiltered listing of the current folder.
func (c *Controller) Listed() []types.Entry {
	out := make([]types.Entry, len(c.listed))
	copy(out, c.listed)
	return out
}

// Generation returns the current refresh generation.
func (c *Controller) Generation() uint64 { return c.generation }

// Notices returns the notices recorded since the last drain.
func (c *Controller) Notices() []types.Notice {
	out := make([]types.Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// DrainNotices returns and clears the recorded notices.
func (c *Controller) DrainNotices() []types.Notice {
	out := c.notices
	c.notices = nil
	return out
}

func (c *Controller) notify(n types.Notice) {
	c.notices = append(c.notices, n)
}

// fail records err as a notice and returns it.
func (c *Controller) fail(op string, err error) error {
	c.notify(types.NoticeFromError(op, err))
	logger := logging.GetLogger("browser")
	logger.Debug().Err(err).Str("op", op).Msg("Operation failed")
	return err
}

func (c *Controller) requireBrowsing(op string) error {
	if c.state == StateIdle {
		return c.fail(op, errors.Newf(errors.ErrNotBrowsing, "cannot %s: browser is not open", op))
	}
	return nil
}

// Open resolves the root from the configured root and the host's active
// document and starts browsing it with an empty query. Reopening resets
// the navigation state.
func (c *Controller) Open() error {
	logger := logging.GetLogger("browser")

	docPath := ""
	if c.opts.Host != nil {
		docPath, _ = c.opts.Host.ActiveDocumentPath()
	}
	root, fellBack, err := c.opts.Resolver.ResolveWithFallback(docPath, c.opts.ConfiguredRoot, c.lastRoot)
	if err != nil {
		return c.fail("open", err)
	}
	if err := c.start(root); err != nil {
		return c.fail("open", err)
	}
	if fellBack {
		c.notify(types.Notice{Level: types.NoticeWarning, Op: "open",
			Message: fmt.Sprintf("no usable root, browsing %s", root)})
	}
	logger.Info().Str("root", root).Bool("fallback", fellBack).Msg("Browser opened")
	return nil
}

// Close returns to Idle. The last root is remembered for the fallback.
func (c *Controller) Close() {
	c.state = StateIdle
	c.nav = NavigationState{}
	c.listed, c.view = nil, nil
	c.expanded = map[string]bool{}
	c.pending = nil
	c.lister, c.searcher, c.ops = nil, nil, nil
	c.generation++
}

// start switches to root and lists it. On failure nothing changes.
func (c *Controller) start(root string) error {
	root = filepath.Clean(root)
	lopts := c.opts.Listing
	lopts.Root = root
	lister := listing.New(c.opts.FS, lopts)
	searcher := search.NewSearcher(lister, c.opts.Search)

	listed, err := lister.List(root)
	if err != nil {
		return err
	}

	c.lister = lister
	c.searcher = searcher
	c.ops = fileops.New(c.opts.FS, root, fileops.Options{UseTrash: c.opts.UseTrash, Trash: c.opts.Trash})
	c.nav = NavigationState{Root: root, Dir: root}
	c.state = StateBrowsing
	c.lastRoot = root
	c.expanded = map[string]bool{}
	c.pending = nil
	c.addRoot(root)
	c.generation++
	c.setListing(listed)
	return nil
}

// setListing stores a fresh listing and recomputes the view.
func (c *Controller) setListing(listed []types.Entry) {
	c.listed = listed
	view, err := c.searcher.Search(c.nav.Dir, listed, c.nav.Query)
	if err != nil {
		// recursive walk failed; fall back to the plain listing
		c.notify(types.NoticeFromError("search", err))
		view = search.Collect(c.searcher.Seq(listed, c.nav.Query), c.opts.Search.MaxResults)
	}
	c.view = c.decorate(view)
}

// decorate marks entries that are open or dirty in the host.
func (c *Controller) decorate(entries []types.Entry) []types.Entry {
	status, ok := c.opts.Host.(types.DocumentStatus)
	if !ok {
		return entries
	}
	for i := range entries {
		if entries[i].IsFile() {
			entries[i].Open = status.IsOpen(entries[i].Path)
			entries[i].Dirty = entries[i].Open && status.IsDirty(entries[i].Path)
		}
	}
	return entries
}
