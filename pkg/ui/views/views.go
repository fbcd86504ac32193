// Package views holds the result types the renderers know how to draw.
// Each command builds one of these and hands it to a ui.Renderer, so the
// json and yaml output is the same data the text output shows.
package views

import (
	"github.com/arthur-debert/scriptbrowser/pkg/browser"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/templates"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// Listing is the browser view: where we are and what is shown.
type Listing struct {
	Root    string         `json:"root" yaml:"root"`
	Dir     string         `json:"dir" yaml:"dir"`
	Query   string         `json:"query,omitempty" yaml:"query,omitempty"`
	State   string         `json:"state" yaml:"state"`
	Entries []types.Entry  `json:"entries" yaml:"entries"`
	Notices []types.Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
}

// NewListing snapshots the controller view and drains its notices.
func NewListing(c *browser.Controller) *Listing {
	nav := c.Navigation()
	entries := c.Entries()
	if entries == nil {
		entries = []types.Entry{}
	}
	return &Listing{
		Root:    nav.Root,
		Dir:     nav.RelDir(),
		Query:   nav.Query,
		State:   c.State().String(),
		Entries: entries,
		Notices: c.DrainNotices(),
	}
}

// EntryChange reports a created, renamed, duplicated or moved node.
type EntryChange struct {
	Action string      `json:"action" yaml:"action"`
	From   string      `json:"from,omitempty" yaml:"from,omitempty"`
	Entry  types.Entry `json:"entry" yaml:"entry"`
}

// DeleteItem is one outcome of a delete command.
type DeleteItem struct {
	Name        string         `json:"name" yaml:"name"`
	Path        string         `json:"path" yaml:"path"`
	Method      fileops.Method `json:"method,omitempty" yaml:"method,omitempty"`
	TrashName   string         `json:"trash_name,omitempty" yaml:"trash_name,omitempty"`
	TrashFailed bool           `json:"trash_failed,omitempty" yaml:"trash_failed,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	Skipped     bool           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Deletion is the result of a delete command.
type Deletion struct {
	Items []DeleteItem `json:"items" yaml:"items"`
}

// Failed counts items that were neither deleted nor skipped.
func (d *Deletion) Failed() int {
	n := 0
	for _, item := range d.Items {
		if item.Error != "" && !item.Skipped {
			n++
		}
	}
	return n
}

// NewDeletion converts delete results. Entries still waiting for a
// confirmation the user refused are marked skipped.
func NewDeletion(results []fileops.DeleteResult, refused bool) *Deletion {
	d := &Deletion{Items: make([]DeleteItem, 0, len(results))}
	for _, r := range results {
		item := DeleteItem{
			Name:        r.Entry.Name,
			Path:        r.Entry.Path,
			Method:      r.Disposition.Method,
			TrashName:   r.Disposition.TrashName,
			TrashFailed: r.Disposition.TrashFailed,
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
			item.Skipped = refused && errors.IsErrorCode(r.Err, errors.ErrConfirmationRequired)
		}
		d.Items = append(d.Items, item)
	}
	return d
}

// TemplateInfo describes a template for the templates commands.
type TemplateInfo struct {
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Source       templates.Source  `json:"source" yaml:"source"`
	Path         string            `json:"path,omitempty" yaml:"path,omitempty"`
	Placeholders []string          `json:"placeholders" yaml:"placeholders"`
	Required     []string          `json:"required,omitempty" yaml:"required,omitempty"`
	Defaults     map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Body         string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// NewTemplateInfo describes t, including the body when withBody is set.
func NewTemplateInfo(t *templates.Template, withBody bool) TemplateInfo {
	info := TemplateInfo{
		Name:         t.Name,
		Description:  t.Description,
		Source:       t.Source,
		Path:         t.Path,
		Placeholders: t.Declared(),
		Required:     t.Required(),
		Defaults:     t.Defaults,
	}
	if info.Placeholders == nil {
		info.Placeholders = []string{}
	}
	if withBody {
		info.Body = t.Body
	}
	return info
}

// TemplateList is the templates list output.
type TemplateList struct {
	Dir       string         `json:"dir,omitempty" yaml:"dir,omitempty"`
	Templates []TemplateInfo `json:"templates" yaml:"templates"`
}

// NewTemplateList describes every template in the catalog.
func NewTemplateList(c *templates.Catalog) *TemplateList {
	list := &TemplateList{Dir: c.Dir()}
	for _, t := range c.List() {
		list.Templates = append(list.Templates, NewTemplateInfo(t, false))
	}
	return list
}

// Insertion is the result of inserting a template into a document.
type Insertion struct {
	Template string `json:"template" yaml:"template"`
	Document string `json:"document" yaml:"document"`
	AtCursor bool   `json:"at_cursor" yaml:"at_cursor"`
	Text     string `json:"text" yaml:"text"`
}

// Rendered is a template rendered without writing it anywhere.
type Rendered struct {
	Template string `json:"template" yaml:"template"`
	Text     string `json:"text" yaml:"text"`
}

// Roots lists the configured roots and marks the active one.
type Roots struct {
	Active string   `json:"active,omitempty" yaml:"active,omitempty"`
	Roots  []string `json:"roots" yaml:"roots"`
}

// Notices wraps notices that are not attached to a listing.
type Notices struct {
	Notices []types.Notice `json:"notices" yaml:"notices"`
}
