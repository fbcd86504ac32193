// Package types defines the data model shared by the browser packages:
// the filesystem abstraction (FS), listing entries (Entry), the host
// document surface (DocumentHost) and the notices and confirmation
// requests the controller hands back to its caller.
package types
