package types

import (
	"fmt"
	"strings"
	"time"
)

// EntryKind tells folders from files.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindFolder
)

func (k EntryKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind as "file" or "folder" in json and yaml output.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "file" or "folder".
func (k *EntryKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "file":
		*k = KindFile
	case "folder", "dir", "directory":
		*k = KindFolder
	default:
		return fmt.Errorf("unknown entry kind %q", string(text))
	}
	return nil
}

// Entry is one filesystem node under the directory being viewed.
// Entries are snapshots: they are read fresh on every listing.
type Entry struct {
	Name    string    `json:"name" yaml:"name"`
	Kind    EntryKind `json:"kind" yaml:"kind"`
	Path    string    `json:"path" yaml:"path"`
	RelPath string    `json:"rel_path" yaml:"rel_path"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	Size    int64     `json:"size" yaml:"size"`
	Symlink bool      `json:"symlink,omitempty" yaml:"symlink,omitempty"`

	// Level is the nesting depth below the listed directory (tree view
	// and recursive search). Direct children have level 0.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Expanded marks folders shown expanded in the tree view.
	Expanded bool `json:"expanded,omitempty" yaml:"expanded,omitempty"`

	// Open and Dirty are filled in by the controller when the host
	// reports document status.
	Open  bool `json:"open,omitempty" yaml:"open,omitempty"`
	Dirty bool `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// IsDir reports whether the entry is a folder.
func (e Entry) IsDir() bool {
	return e.Kind == KindFolder
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}

// Names returns the entry names in order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
