// Package trash moves deleted files to a trash so deletes from the browser
// can be undone. System uses the platform trash. Trash is a freedesktop.org
// trash folder that works on any types.FS.
package trash

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

const infoExt = ".trashinfo"

// maxAttempts bounds the search for a free name in files/.
const maxAttempts = 1000

// Trash is a freedesktop trash directory.
type Trash struct {
	fs  types.FS
	dir string
	now func() time.Time
}

// New returns the trash rooted at dir.
func New(fsys types.FS, dir string) *Trash {
	return &Trash{fs: fsys, dir: dir, now: time.Now}
}

// Home returns the user's home trash.
func Home(fsys types.FS) *Trash {
	return New(fsys, DefaultDir())
}

// DefaultDir is $XDG_DATA_HOME/Trash.
func DefaultDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash")
	}
	return filepath.Join(xdg.DataHome, "Trash")
}

// WithClock replaces the deletion timestamp source.
func (t *Trash) WithClock(now func() time.Time) *Trash {
	t.now = now
	return t
}

// Dir returns the trash directory.
func (t *Trash) Dir() string {
	return t.dir
}

func (t *Trash) filesDir() string { return filepath.Join(t.dir, "files") }
func (t *Trash) infoDir() string  { return filepath.Join(t.dir, "info") }

// Trash moves path into the trash and returns the name it was stored
// under. The info file is written first and removed again if the move
// fails, so a failure leaves the original untouched.
func (t *Trash) Trash(path string) (string, error) {
	logger := logging.GetLogger("trash")

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTrash, "cannot resolve %s", path)
	}
	if _, err := t.fs.Lstat(abs); err != nil {
		return "", errors.FromFS(err, errors.ErrNotFound, abs)
	}

	for _, dir := range []string{t.filesDir(), t.infoDir()} {
		if err := t.fs.MkdirAll(dir, 0700); err != nil {
			return "", errors.Wrapf(err, errors.ErrTrash, "cannot create trash directory %s", dir)
		}
	}

	name, infoPath, err := t.reserve(abs)
	if err != nil {
		return "", err
	}

	target := filepath.Join(t.filesDir(), name)
	if err := t.fs.Rename(abs, target); err != nil {
		_ = t.fs.Remove(infoPath)
		return "", errors.Wrapf(err, errors.ErrTrash, "cannot move %s to trash", abs).
			WithDetail("path", abs)
	}

	logger.Info().Str("path", abs).Str("trashed_as", name).Msg("Moved to trash")
	return name, nil
}

// reserve claims a name by creating its info file exclusively.
func (t *Trash) reserve(abs string) (string, string, error) {
	base := filepath.Base(abs)
	content := infoContent(abs, t.now())

	for i := 1; i <= maxAttempts; i++ {
		name := base
		if i > 1 {
			name = base + "." + strconv.Itoa(i)
		}
		if _, err := t.fs.Lstat(filepath.Join(t.filesDir(), name)); err == nil {
			continue
		}

		infoPath := filepath.Join(t.infoDir(), name+infoExt)
		f, err := t.fs.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", errors.Wrapf(err, errors.ErrTrash, "cannot write %s", infoPath)
		}
		_, werr := io.WriteString(f, content)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = t.fs.Remove(infoPath)
			return "", "", errors.Newf(errors.ErrTrash, "cannot write %s", infoPath)
		}
		return name, infoPath, nil
	}
	return "", "", errors.Newf(errors.ErrTrash, "no free trash name for %s", base)
}

func infoContent(abs string, when time.Time) string {
	escaped := (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
	return fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escaped, when.Format("2006-01-02T15:04:05"))
}

// Item is one trashed entry.
type Item struct {
	Name         string
	OriginalPath string
	DeletionDate time.Time
}

// Items lists what is in the trash, skipping unreadable info files.
func (t *Trash) Items() ([]Item, error) {
	infos, err := t.fs.ReadDir(t.infoDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.FromFS(err, errors.ErrTrash, t.infoDir())
	}

	var items []Item
	for _, info := range infos {
		if !strings.HasSuffix(info.Name(), infoExt) {
			continue
		}
		data, err := t.fs.ReadFile(filepath.Join(t.infoDir(), info.Name()))
		if err != nil {
			continue
		}
		item, ok := parseInfo(string(data))
		if !ok {
			continue
		}
		item.Name = strings.TrimSuffix(info.Name(), infoExt)
		items = append(items, item)
	}
	return items, nil
}

func parseInfo(content string) (Item, bool) {
	var item Item
	var sawHeader bool
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "[Trash Info]":
			sawHeader = true
		case strings.HasPrefix(line, "Path="):
			p, err := url.PathUnescape(strings.TrimPrefix(line, "Path="))
			if err != nil {
				return item, false
			}
			item.OriginalPath = filepath.FromSlash(p)
		case strings.HasPrefix(line, "DeletionDate="):
			d, err := time.ParseInLocation("2006-01-02T15:04:05", strings.TrimPrefix(line, "DeletionDate="), time.Local)
			if err == nil {
				item.DeletionDate = d
			}
		}
	}
	return item, sawHeader && item.OriginalPath != ""
}
