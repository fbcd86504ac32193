// Package fileops creates, deletes, renames, duplicates and moves entries
// inside a browsing root.
//
// Every operation validates names and checks that its paths stay below
// the root before touching the filesystem. New files are created with
// O_EXCL so an existing entry is never overwritten. Callers must re-list
// any directory an operation touched.
package fileops
