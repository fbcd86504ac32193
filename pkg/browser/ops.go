package browser

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// afterChange relists once a file operation mutated the viewed folder. A
// failed relist is only reported as a notice.
func (c *Controller) afterChange() {
	listed, err := c.list(c.nav.Dir, c.expanded)
	if err != nil {
		c.notify(types.NoticeFromError("refresh", err))
		return
	}
	c.generation++
	c.setListing(listed)
}

func (c *Controller) done(op, format string, args ...interface{}) {
	c.notify(types.NewNotice(op, format, args...))
	c.afterChange()
}

// CreateFile creates an empty file in the viewed folder.
func (c *Controller) CreateFile(name string) (types.Entry, error) {
	if err := c.requireBrowsing("create file"); err != nil {
		return types.Entry{}, err
	}
	entry, err := c.ops.CreateFile(c.nav.Dir, name)
	if err != nil {
		return types.Entry{}, c.fail("create file", err)
	}
	c.done("create file", "Created %s", entry.Name)
	return entry, nil
}

// CreateFolder creates a folder in the viewed folder.
func (c *Controller) CreateFolder(name string) (types.Entry, error) {
	if err := c.requireBrowsing("create folder"); err != nil {
		return types.Entry{}, err
	}
	entry, err := c.ops.CreateFolder(c.nav.Dir, name)
	if err != nil {
		return types.Entry{}, c.fail("create folder", err)
	}
	c.done("create folder", "Created folder %s", entry.Name)
	return entry, nil
}

// CreateFromTemplate renders a template into a new file of the viewed
// folder. An empty name uses the template's name. The file is opened in
// the host when auto-open is on.
func (c *Controller) CreateFromTemplate(templateName, name string, ctx map[string]string) (types.Entry, error) {
	const op = "create from template"
	if err := c.requireBrowsing(op); err != nil {
		return types.Entry{}, err
	}
	if c.opts.Engine == nil {
		return types.Entry{}, c.fail(op, errors.New(errors.ErrTemplateNotFound, "no templates available"))
	}

	tmpl, err := c.opts.Engine.Catalog().Get(templateName)
	if err != nil {
		return types.Entry{}, c.fail(op, err)
	}
	if name == "" {
		name = tmpl.Name
	}
	body, err := c.opts.Engine.RenderTemplate(tmpl, ctx)
	if err != nil {
		return types.Entry{}, c.fail(op, err)
	}

	entry, err := c.ops.CreateFileWithContent(c.nav.Dir, name, []byte(body))
	if err != nil {
		return types.Entry{}, c.fail(op, err)
	}
	if c.opts.AutoOpen && c.opts.Host != nil {
		if _, err := c.opts.Host.OpenDocument(entry.Path); err != nil {
			c.notify(types.NoticeFromError("open", err))
		}
	}
	c.done(op, "Created %s from %s", entry.Name, tmpl.Name)
	return entry, nil
}

// InsertTemplate renders a template into the host's active document.
func (c *Controller) InsertTemplate(templateName string, ctx map[string]string, atCursor bool) (string, error) {
	const op = "insert template"
	if err := c.requireBrowsing(op); err != nil {
		return "", err
	}
	if c.opts.Engine == nil {
		return "", c.fail(op, errors.New(errors.ErrTemplateNotFound, "no templates available"))
	}
	text, err := c.opts.Engine.InsertInto(c.opts.Host, templateName, ctx, atCursor)
	if err != nil {
		return "", c.fail(op, err)
	}
	c.notify(types.NewNotice(op, "Inserted %s", templateName))
	c.view = c.decorate(c.view)
	return text, nil
}

// Rename renames an entry in place.
func (c *Controller) Rename(entry types.Entry, newName string) (types.Entry, error) {
	if err := c.requireBrowsing("rename"); err != nil {
		return types.Entry{}, err
	}
	renamed, err := c.ops.Rename(entry, newName)
	if err != nil {
		return types.Entry{}, c.fail("rename", err)
	}
	c.relocate(entry.Path, renamed.Path)
	c.done("rename", "Renamed %s to %s", entry.Name, renamed.Name)
	return renamed, nil
}

// Duplicate copies a file next to itself.
func (c *Controller) Duplicate(entry types.Entry) (types.Entry, error) {
	if err := c.requireBrowsing("duplicate"); err != nil {
		return types.Entry{}, err
	}
	dup, err := c.ops.Duplicate(entry)
	if err != nil {
		return types.Entry{}, c.fail("duplicate", err)
	}
	c.done("duplicate", "Duplicated %s as %s", entry.Name, dup.Name)
	return dup, nil
}

// Move moves an entry into destDir, which may be relative to the viewed
// folder.
func (c *Controller) Move(entry types.Entry, destDir string) (types.Entry, error) {
	if err := c.requireBrowsing("move"); err != nil {
		return types.Entry{}, err
	}
	dest, err := c.within(destDir)
	if err != nil {
		return types.Entry{}, c.fail("move", err)
	}
	moved, err := c.ops.Move(entry, dest)
	if err != nil {
		return types.Entry{}, c.fail("move", err)
	}
	c.relocate(entry.Path, moved.Path)
	c.done("move", "Moved %s to %s", entry.Name, moved.RelPath)
	return moved, nil
}

// relocate follows an entry that moved from one path to another: the
// viewed folder and expanded folders at or below it get the new prefix.
func (c *Controller) relocate(from, to string) {
	rebase := func(p string) (string, bool) {
		if !paths.IsWithin(from, p) {
			return p, false
		}
		return filepath.Join(to, filepath.FromSlash(paths.RelativeTo(from, p))), true
	}
	if dir, ok := rebase(c.nav.Dir); ok {
		c.nav.Dir = dir
	}
	expanded := make(map[string]bool, len(c.expanded))
	for p := range c.expanded {
		np, _ := rebase(p)
		expanded[np] = true
	}
	c.expanded = expanded
}

// forget drops a deleted entry from the view state. When the viewed
// folder was at or below it, the view moves to the entry's parent.
func (c *Controller) forget(path string) {
	if paths.IsWithin(path, c.nav.Dir) {
		c.nav.Dir = filepath.Dir(path)
	}
	for p := range c.expanded {
		if paths.IsWithin(path, p) {
			delete(c.expanded, p)
		}
	}
}

// pendingDelete is a delete waiting for confirmation.
type pendingDelete struct {
	request   types.ConfirmationRequest
	entries   []types.Entry
	permanent bool
}

// Delete removes an entry. A folder with children is not deleted: a
// confirmation request is stored (see PendingConfirmation) and the call
// fails with CONFIRMATION_REQUIRED until Confirm approves it.
func (c *Controller) Delete(entry types.Entry, permanent bool) (fileops.Disposition, error) {
	if err := c.requireBrowsing("delete"); err != nil {
		return fileops.Disposition{}, err
	}
	results, err := c.deleteEntries([]types.Entry{entry}, permanent)
	if err != nil {
		return fileops.Disposition{}, err
	}
	return results[0].Disposition, results[0].Err
}

// DeleteBatch deletes entries independently. Folders with children are
// collected into one confirmation request; their results carry
// CONFIRMATION_REQUIRED.
func (c *Controller) DeleteBatch(entries []types.Entry, permanent bool) ([]fileops.DeleteResult, error) {
	if err := c.requireBrowsing("delete"); err != nil {
		return nil, err
	}
	return c.deleteEntries(entries, permanent)
}

func (c *Controller) deleteEntries(entries []types.Entry, permanent bool) ([]fileops.DeleteResult, error) {
	results := make([]fileops.DeleteResult, len(entries))
	var guarded []types.Entry
	deleted := 0

	for i, e := range entries {
		results[i].Entry = e
		needs, err := c.ops.NeedsConfirmation(e)
		if err != nil {
			results[i].Err = c.fail("delete", err)
			continue
		}
		if needs {
			guarded = append(guarded, e)
			continue
		}
		results[i].Disposition, results[i].Err = c.ops.Delete(e, fileops.DeleteOptions{Permanent: permanent})
		if results[i].Err != nil {
			c.fail("delete", results[i].Err)
			continue
		}
		deleted++
		c.forget(e.Path)
		c.reportDisposition(e, results[i].Disposition)
	}

	if len(guarded) > 0 {
		req := c.requestConfirmation(guarded, permanent)
		err := errors.Newf(errors.ErrConfirmationRequired, "%s", req.Title).
			WithDetail("confirmation_id", req.ID)
		for i := range results {
			if results[i].Err == nil && results[i].Disposition.Method == "" {
				results[i].Err = err
			}
		}
		c.notify(types.Notice{Level: types.NoticeWarning, Op: "delete", Code: errors.ErrConfirmationRequired, Message: req.Title})
	}

	if deleted > 0 {
		c.afterChange()
	}
	return results, nil
}

func (c *Controller) reportDisposition(e types.Entry, d fileops.Disposition) {
	switch {
	case d.TrashFailed:
		c.notify(types.Notice{Level: types.NoticeWarning, Op: "delete",
			Message: fmt.Sprintf("Could not trash %s (%s); deleted permanently", e.Name, d.TrashError)})
	case d.Method == fileops.MethodTrashed:
		c.notify(types.NewNotice("delete", "Moved %s to trash", e.Name))
	default:
		c.notify(types.NewNotice("delete", "Deleted %s", e.Name))
	}
}

func (c *Controller) requestConfirmation(entries []types.Entry, permanent bool) types.ConfirmationRequest {
	c.confirmSeq++
	names := types.Names(entries)
	title := fmt.Sprintf("Delete %s and everything in it?", names[0])
	if len(names) > 1 {
		title = fmt.Sprintf("Delete %d folders and everything in them?", len(names))
	}
	desc := "The folders will be moved to the trash."
	if permanent || !c.opts.UseTrash {
		desc = "The folders will be deleted permanently."
	}
	req := types.ConfirmationRequest{
		ID:          "delete-" + strconv.Itoa(c.confirmSeq),
		Operation:   "delete",
		Title:       title,
		Description: desc,
		Items:       names,
		Default:     false,
	}
	c.pending = &pendingDelete{request: req, entries: entries, permanent: permanent}
	return req
}

// PendingConfirmation returns the request waiting for Confirm.
func (c *Controller) PendingConfirmation() (types.ConfirmationRequest, bool) {
	if c.pending == nil {
		return types.ConfirmationRequest{}, false
	}
	return c.pending.request, true
}

// Confirm answers the pending request. Approving deletes the guarded
// folders recursively; refusing drops the request.
func (c *Controller) Confirm(id string, approved bool) ([]fileops.DeleteResult, error) {
	if err := c.requireBrowsing("confirm"); err != nil {
		return nil, err
	}
	if c.pending == nil || c.pending.request.ID != id {
		return nil, c.fail("confirm", errors.Newf(errors.ErrInvalidInput, "no pending confirmation %q", id))
	}
	p := c.pending
	c.pending = nil

	if !approved {
		c.notify(types.NewNotice("delete", "Delete cancelled"))
		return nil, nil
	}

	results := c.ops.DeleteBatch(p.entries, fileops.DeleteOptions{Recursive: true, Permanent: p.permanent})
	for _, r := range results {
		if r.Err != nil {
			c.fail("delete", r.Err)
			continue
		}
		c.forget(r.Entry.Path)
		c.reportDisposition(r.Entry, r.Disposition)
	}
	if len(fileops.Failed(results)) < len(results) {
		c.afterChange()
	}
	return results, nil
}
