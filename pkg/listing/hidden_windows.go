//go:build windows

package listing

import (
	"io/fs"
	"syscall"
)

func hasHiddenAttribute(info fs.FileInfo) bool {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return data.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0
	}
	return false
}
