package templates

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// Source tells where a template came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

// Template is a named body with placeholder markers. Treat it as
// immutable; the catalog hands out copies.
type Template struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Body        string            `json:"-" yaml:"-"`
	Defaults    map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Source      Source            `json:"source" yaml:"source"`
	// Path is the file backing a user template.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// New creates a template from a body.
func New(name, body string) *Template {
	return &Template{Name: name, Body: body, Source: SourceUser}
}

// Marker is one placeholder occurrence in a body.
type Marker struct {
	Name       string
	Default    string
	HasDefault bool
	// Start and End delimit the marker in the body.
	Start, End int
}

// markerPattern matches a marker, optionally preceded by an escaped
// backslash, or an escaped brace. `\{name}` is literal text while
// `\\{name}` is a backslash followed by the marker.
var markerPattern = regexp.MustCompile(`(\\\\)?\{([A-Za-z_][A-Za-z0-9_]*)(?::([^{}\n]*))?\}|\\\{`)

// submatch indexes into markerPattern results
const (
	subBackslash = 2
	subName      = 4
	subDefault   = 6
)

// Markers returns the markers of body in order, including repeats. Start
// and End exclude an escaped backslash in front of the marker.
func Markers(body string) []Marker {
	var markers []Marker
	for _, m := range markerPattern.FindAllStringSubmatchIndex(body, -1) {
		if m[subName] < 0 {
			continue // escaped brace
		}
		marker := Marker{Name: body[m[subName]:m[subName+1]], Start: m[0], End: m[1]}
		if m[subBackslash] >= 0 {
			marker.Start = m[subBackslash+1]
		}
		if m[subDefault] >= 0 {
			marker.HasDefault = true
			marker.Default = body[m[subDefault]:m[subDefault+1]]
		}
		markers = append(markers, marker)
	}
	return markers
}

// inlineDefaults maps each marker name to its first inline default. The
// default applies to every occurrence of the name.
func inlineDefaults(markers []Marker) map[string]string {
	defaults := map[string]string{}
	for _, m := range markers {
		if _, seen := defaults[m.Name]; m.HasDefault && !seen {
			defaults[m.Name] = m.Default
		}
	}
	return defaults
}

// Placeholders returns the distinct marker names of t in body order.
func (t *Template) Placeholders() []string {
	var names []string
	for _, m := range Markers(t.Body) {
		if !slices.Contains(names, m.Name) {
			names = append(names, m.Name)
		}
	}
	return names
}

// Declared returns every name t accepts: its markers plus the keys of its
// declared defaults, sorted.
func (t *Template) Declared() []string {
	names := t.Placeholders()
	for k := range t.Defaults {
		if !slices.Contains(names, k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Required returns the markers that have neither an inline nor a declared
// default, in body order.
func (t *Template) Required() []string {
	markers := Markers(t.Body)
	inline := inlineDefaults(markers)
	var names []string
	for _, m := range markers {
		if _, ok := inline[m.Name]; ok || slices.Contains(names, m.Name) {
			continue
		}
		if _, ok := t.Defaults[m.Name]; ok {
			continue
		}
		names = append(names, m.Name)
	}
	return names
}

func (t *Template) clone() *Template {
	c := *t
	if t.Defaults != nil {
		c.Defaults = make(map[string]string, len(t.Defaults))
		for k, v := range t.Defaults {
			c.Defaults[k] = v
		}
	}
	return &c
}

// RenderOptions tune Render.
type RenderOptions struct {
	// Strict rejects context keys the template does not declare.
	Strict bool
	// Fallback is consulted after every other source.
	Fallback map[string]string
}

// Render substitutes every marker of t from ctx, the template defaults or
// the inline default. An inline default given on any occurrence of a name
// covers its bare occurrences too; an occurrence's own default wins over
// one given elsewhere. The first marker that cannot be resolved fails with
// MISSING_PLACEHOLDER.
func Render(t *Template, ctx map[string]string) (string, error) {
	return RenderWith(t, ctx, RenderOptions{})
}

// RenderWith is Render with options.
func RenderWith(t *Template, ctx map[string]string, opts RenderOptions) (string, error) {
	if t == nil {
		return "", errors.New(errors.ErrInvalidInput, "no template given")
	}

	if opts.Strict {
		declared := t.Declared()
		var unknown []string
		for k := range ctx {
			if !slices.Contains(declared, k) {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return "", errors.Newf(errors.ErrInvalidInput,
				"template %s does not declare %s", t.Name, strings.Join(unknown, ", ")).
				WithDetails(map[string]interface{}{"template": t.Name, "unknown": unknown})
		}
	}

	inline := inlineDefaults(Markers(t.Body))

	var b strings.Builder
	b.Grow(len(t.Body))
	last := 0
	for _, m := range markerPattern.FindAllStringSubmatchIndex(t.Body, -1) {
		b.WriteString(t.Body[last:m[0]])
		last = m[1]

		if m[subName] < 0 {
			b.WriteByte('{')
			continue
		}
		if m[subBackslash] >= 0 {
			b.WriteByte('\\')
		}

		name := t.Body[m[subName]:m[subName+1]]
		value, ok := resolve(t, name, ctx)
		if !ok && m[subDefault] >= 0 {
			value, ok = t.Body[m[subDefault]:m[subDefault+1]], true
		}
		if !ok {
			value, ok = inline[name]
		}
		if !ok {
			value, ok = opts.Fallback[name]
		}
		if !ok {
			return "", errors.Newf(errors.ErrMissingPlaceholder, "missing value for placeholder %q", name).
				WithDetails(map[string]interface{}{"template": t.Name, "placeholder": name})
		}
		b.WriteString(value)
	}
	b.WriteString(t.Body[last:])
	return b.String(), nil
}

// resolve looks name up in the context and then the declared defaults.
func resolve(t *Template, name string, ctx map[string]string) (string, bool) {
	if v, ok := ctx[name]; ok {
		return v, true
	}
	v, ok := t.Defaults[name]
	return v, ok
}
