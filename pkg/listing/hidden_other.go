//go:build !windows

package listing

import "io/fs"

// hasHiddenAttribute is false outside Windows, where dot-prefixed names
// are the only hidden marker.
func hasHiddenAttribute(fs.FileInfo) bool {
	return false
}
