package templates

import (
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Engine renders catalog templates with fallback variables.
type Engine struct {
	catalog  *Catalog
	defaults map[string]string
	strict   bool
	now      func() time.Time
}

// NewEngine creates an engine over catalog. defaults come from the
// templates.defaults configuration and override the built-in variables.
func NewEngine(catalog *Catalog, defaults map[string]string) *Engine {
	return &Engine{catalog: catalog, defaults: defaults, now: time.Now}
}

// WithClock replaces the clock used for date and year.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithStrict makes Render reject undeclared context keys.
func (e *Engine) WithStrict(strict bool) *Engine {
	e.strict = strict
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Variables returns the fallback variables.
func (e *Engine) Variables() map[string]string {
	now := e.now()
	vars := map[string]string{
		"user":     currentUser(),
		"date":     now.Format("2006-01-02"),
		"year":     strconv.Itoa(now.Year()),
		"hostname": hostname(),
	}
	vars["author"] = vars["user"]
	for k, v := range e.defaults {
		if k == "author" && v == "" {
			continue
		}
		vars[k] = v
	}
	return vars
}

// Render renders the catalog template called name.
func (e *Engine) Render(name string, ctx map[string]string) (string, error) {
	t, err := e.catalog.Get(name)
	if err != nil {
		return "", err
	}
	return e.RenderTemplate(t, ctx)
}

// RenderTemplate renders t with the engine's fallback variables.
func (e *Engine) RenderTemplate(t *Template, ctx map[string]string) (string, error) {
	out, err := RenderWith(t, ctx, RenderOptions{Strict: e.strict, Fallback: e.Variables()})
	if err != nil {
		return "", err
	}
	logger := logging.GetLogger("templates")
	logger.Debug().Str("template", t.Name).Int("bytes", len(out)).Msg("Rendered template")
	return out, nil
}

// InsertInto renders name and inserts it into the host's active document.
func (e *Engine) InsertInto(host types.DocumentHost, name string, ctx map[string]string, atCursor bool) (string, error) {
	text, err := e.Render(name, ctx)
	if err != nil {
		return "", err
	}
	if err := Insert(host, text, atCursor); err != nil {
		return "", err
	}
	return text, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}
