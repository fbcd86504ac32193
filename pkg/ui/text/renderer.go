// Package text renders results as human readable lines, plain or styled
// with lipgloss.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/scriptbrowser/pkg/config"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/listing"
	"github.com/arthur-debert/scriptbrowser/pkg/style"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

// Renderer writes text output
type Renderer struct {
	output io.Writer
	theme  *style.Theme
}

// New creates a renderer without any styling
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output, theme: style.Plain()}, nil
}

// NewStyled creates a renderer that colours its output. force keeps the
// colours when output is not a terminal.
func NewStyled(output io.Writer, force bool) (*Renderer, error) {
	return &Renderer{output: output, theme: style.NewTheme(output, force)}, nil
}

// RenderResult renders any result type as text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *views.Listing:
		r.listing(&b, v)
	case *views.EntryChange:
		r.change(&b, v)
	case *views.Deletion:
		r.deletion(&b, v)
	case *views.TemplateList:
		r.templateList(&b, v)
	case views.TemplateInfo:
		r.template(&b, &v)
	case *views.TemplateInfo:
		r.template(&b, v)
	case *views.Insertion:
		fmt.Fprintf(&b, "%s %s into %s\n", r.theme.Paint(r.theme.Success, "Inserted"),
			r.theme.Paint(r.theme.Title, v.Template), r.theme.Paint(r.theme.Path, v.Document))
	case *views.Rendered:
		b.WriteString(v.Text)
	case *views.Roots:
		r.roots(&b, v)
	case *views.Notices:
		r.notices(&b, v.Notices)
	case []types.Notice:
		r.notices(&b, v)
	case *config.Config:
		data, err := config.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(data)
	case string:
		b.WriteString(v + "\n")
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with its code when it has one
func (r *Renderer) RenderError(err error) error {
	label := "Error"
	msg := err.Error()
	var be *errors.BrowserError
	if errors.As(err, &be) {
		label = fmt.Sprintf("Error [%s]", be.Code)
		msg = be.Message
		if be.Wrapped != nil {
			msg += ": " + be.Wrapped.Error()
		}
	}
	_, werr := fmt.Fprintf(r.output, "%s: %s\n", r.theme.Paint(r.theme.Error, label), msg)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) listing(b *strings.Builder, l *views.Listing) {
	header := r.theme.Paint(r.theme.Title, l.Root)
	if l.Dir != "" && l.Dir != "." {
		header += r.theme.Paint(r.theme.Muted, " › ") + r.theme.Paint(r.theme.Path, l.Dir)
	}
	if l.Query != "" {
		header += r.theme.Paint(r.theme.Muted, fmt.Sprintf("  search: %q", l.Query))
	}
	b.WriteString(header + "\n")

	if len(l.Entries) == 0 {
		empty := "(empty)"
		if l.Query != "" {
			empty = "(no matches)"
		}
		b.WriteString(r.theme.Paint(r.theme.Muted, empty) + "\n")
	}

	lefts := make([]string, len(l.Entries))
	width := 0
	for i, e := range l.Entries {
		lefts[i] = style.Indent(entryLabel(e, l.Query != ""), e.Level)
		width = max(width, lipgloss.Width(lefts[i]))
	}
	for i, e := range l.Entries {
		ft := listing.TypeOf(e)
		line := r.theme.Paint(r.theme.ForType(ft), lefts[i]) +
			strings.Repeat(" ", width-lipgloss.Width(lefts[i])+2) +
			r.theme.Paint(r.theme.Muted, string(ft))
		if e.Open {
			line += " " + r.theme.Paint(r.theme.Marker, "[open]")
		}
		if e.Dirty {
			line += " " + r.theme.Paint(r.theme.Dirty, "[modified]")
		}
		b.WriteString(line + "\n")
	}

	r.notices(b, l.Notices)
}

// entryLabel is the name column. Search results show their relative
// path since they may come from subfolders.
func entryLabel(e types.Entry, searching bool) string {
	name := e.Name
	if searching && e.RelPath != "" {
		name = e.RelPath
	}
	if e.IsDir() {
		if e.Expanded {
			return "▾ " + name + "/"
		}
		return "▸ " + name + "/"
	}
	return "  " + name
}

func (r *Renderer) change(b *strings.Builder, c *views.EntryChange) {
	verb := c.Action
	if verb != "" {
		verb = strings.ToUpper(verb[:1]) + verb[1:]
	}
	target := c.Entry.RelPath
	if target == "" {
		target = c.Entry.Name
	}
	if c.From != "" {
		fmt.Fprintf(b, "%s %s → %s\n", r.theme.Paint(r.theme.Success, verb),
			r.theme.Paint(r.theme.Path, c.From), r.theme.Paint(r.theme.Path, target))
		return
	}
	fmt.Fprintf(b, "%s %s %s\n", r.theme.Paint(r.theme.Success, verb), c.Entry.Kind,
		r.theme.Paint(r.theme.Path, target))
}

func (r *Renderer) deletion(b *strings.Builder, d *views.Deletion) {
	for _, item := range d.Items {
		switch {
		case item.Skipped:
			fmt.Fprintf(b, "%s %s (kept)\n", r.theme.Paint(r.theme.Muted, "-"), item.Name)
		case item.Error != "":
			fmt.Fprintf(b, "%s %s: %s\n", r.theme.Paint(r.theme.Error, style.Indicator(types.NoticeError)), item.Name, item.Error)
		case item.TrashFailed:
			fmt.Fprintf(b, "%s %s deleted permanently (trash unavailable)\n",
				r.theme.Paint(r.theme.Warning, style.Indicator(types.NoticeWarning)), item.Name)
		case item.Method == fileops.MethodTrashed:
			fmt.Fprintf(b, "%s %s moved to trash\n", r.theme.Paint(r.theme.Success, "✓"), item.Name)
		default:
			fmt.Fprintf(b, "%s %s deleted\n", r.theme.Paint(r.theme.Success, "✓"), item.Name)
		}
	}
}

func (r *Renderer) templateList(b *strings.Builder, l *views.TemplateList) {
	width := 0
	for _, t := range l.Templates {
		width = max(width, lipgloss.Width(t.Name))
	}
	for _, t := range l.Templates {
		line := r.theme.Paint(r.theme.Title, t.Name) + strings.Repeat(" ", width-lipgloss.Width(t.Name)+2) +
			r.theme.Paint(r.theme.Muted, fmt.Sprintf("%-7s", t.Source))
		if t.Description != "" {
			line += "  " + t.Description
		}
		b.WriteString(line + "\n")
	}
	if l.Dir != "" {
		b.WriteString(r.theme.Paint(r.theme.Muted, "user templates: ") + r.theme.Paint(r.theme.Path, l.Dir) + "\n")
	}
}

func (r *Renderer) template(b *strings.Builder, t *views.TemplateInfo) {
	fmt.Fprintf(b, "%s (%s)\n", r.theme.Paint(r.theme.Title, t.Name), t.Source)
	if t.Description != "" {
		b.WriteString(t.Description + "\n")
	}
	if len(t.Placeholders) > 0 {
		var parts []string
		for _, p := range t.Placeholders {
			if v, ok := t.Defaults[p]; ok {
				p += "=" + v
			}
			parts = append(parts, p)
		}
		b.WriteString(r.theme.Paint(r.theme.Muted, "placeholders: ") + strings.Join(parts, ", ") + "\n")
	}
	if len(t.Required) > 0 {
		b.WriteString(r.theme.Paint(r.theme.Muted, "required: ") + strings.Join(t.Required, ", ") + "\n")
	}
	if t.Body != "" {
		b.WriteString("\n" + t.Body)
		if !strings.HasSuffix(t.Body, "\n") {
			b.WriteString("\n")
		}
	}
}

func (r *Renderer) roots(b *strings.Builder, roots *views.Roots) {
	if len(roots.Roots) == 0 {
		b.WriteString(r.theme.Paint(r.theme.Muted, "(no roots)") + "\n")
	}
	for _, root := range roots.Roots {
		marker := "  "
		if root == roots.Active {
			marker = r.theme.Paint(r.theme.Marker, "* ")
		}
		b.WriteString(marker + r.theme.Paint(r.theme.Path, root) + "\n")
	}
}

func (r *Renderer) notices(b *strings.Builder, notices []types.Notice) {
	for _, n := range notices {
		st := r.theme.ForLevel(n.Level)
		msg := n.Message
		if n.Code != "" {
			msg = fmt.Sprintf("%s (%s)", msg, n.Code)
		}
		fmt.Fprintf(b, "%s %s\n", r.theme.Paint(st, style.Indicator(n.Level)), msg)
	}
}
