package fileops

import (
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// DeleteOptions control a delete.
type DeleteOptions struct {
	// Recursive allows deleting a folder that still has children. Only
	// set it after the user confirmed.
	Recursive bool
	// Permanent skips the trash.
	Permanent bool
}

// Method tells how an entry was deleted.
type Method string

const (
	MethodTrashed Method = "trashed"
	MethodRemoved Method = "removed"
)

// Disposition reports what a delete did.
type Disposition struct {
	Path   string `json:"path" yaml:"path"`
	Method Method `json:"method" yaml:"method"`
	// TrashName is the name inside the trash when Method is trashed.
	TrashName string `json:"trash_name,omitempty" yaml:"trash_name,omitempty"`
	// TrashFailed is set when the trash was tried and the entry was
	// removed permanently instead.
	TrashFailed bool   `json:"trash_failed,omitempty" yaml:"trash_failed,omitempty"`
	TrashError  string `json:"trash_error,omitempty" yaml:"trash_error,omitempty"`
}

// DeleteResult is the outcome for one entry of a batch.
type DeleteResult struct {
	Entry       types.Entry
	Disposition Disposition
	Err         error
}

// NeedsConfirmation reports whether deleting entry requires the user to
// confirm, that is whether it is a folder with children.
func (o *Ops) NeedsConfirmation(entry types.Entry) (bool, error) {
	path, info, err := o.existingEntry(entry)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	children, err := o.fs.ReadDir(path)
	if err != nil {
		return false, errors.FromFS(err, errors.ErrNotFound, path)
	}
	return len(children) > 0, nil
}

// Delete removes entry. A folder with children needs opts.Recursive and
// fails with CONFIRMATION_REQUIRED otherwise. The root cannot be deleted.
// Open documents for the entry are left to the host.
func (o *Ops) Delete(entry types.Entry, opts DeleteOptions) (Disposition, error) {
	logger := logging.GetLogger("fileops")

	path, info, err := o.existingEntry(entry)
	if err != nil {
		return Disposition{}, err
	}
	if err := o.rejectRoot(path, "delete"); err != nil {
		return Disposition{}, err
	}

	if info.IsDir() && !opts.Recursive {
		needs, err := o.NeedsConfirmation(entry)
		if err != nil {
			return Disposition{}, err
		}
		if needs {
			return Disposition{}, errors.Newf(errors.ErrConfirmationRequired,
				"%s is not empty", entry.Name).WithDetail("path", path)
		}
	}

	disp := Disposition{Path: path}
	if o.opts.UseTrash && !opts.Permanent {
		name, terr := o.opts.Trash.Trash(path)
		if terr == nil {
			disp.Method = MethodTrashed
			disp.TrashName = name
			return disp, nil
		}
		logger.Warn().Err(terr).Str("path", path).Msg("Trash failed, deleting permanently")
		disp.TrashFailed = true
		disp.TrashError = terr.Error()
	}

	if info.IsDir() {
		err = o.fs.RemoveAll(path)
	} else {
		err = o.fs.Remove(path)
	}
	if err != nil {
		return Disposition{}, errors.FromFS(err, errors.ErrNotFound, path)
	}

	disp.Method = MethodRemoved
	logger.Info().Str("path", path).Bool("trash_failed", disp.TrashFailed).Msg("Deleted entry")
	return disp, nil
}

// DeleteBatch deletes each entry independently; one failure does not stop
// the others.
func (o *Ops) DeleteBatch(entries []types.Entry, opts DeleteOptions) []DeleteResult {
	results := make([]DeleteResult, len(entries))
	for i, e := range entries {
		disp, err := o.Delete(e, opts)
		results[i] = DeleteResult{Entry: e, Disposition: disp, Err: err}
	}
	return results
}

// Failed returns the results that carry an error.
func Failed(results []DeleteResult) []DeleteResult {
	var failed []DeleteResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
