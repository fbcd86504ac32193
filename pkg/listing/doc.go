// Package listing reads directories into ordered entry snapshots.
//
// List returns folders before files, each group in case-insensitive name
// order. Hidden entries and files outside the configured extensions are
// left out; dangling symlinks are skipped. Tree flattens a directory with
// some folders expanded and Walk visits a whole subtree in listing order,
// which is what recursive search uses.
package listing
