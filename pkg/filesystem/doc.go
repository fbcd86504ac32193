// Package filesystem provides the types.FS implementations: the real OS
// filesystem and an afero-backed one used for in-memory tests and for
// sandboxed filesystems (afero.BasePathFs, afero.ReadOnlyFs).
package filesystem
