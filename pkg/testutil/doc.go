// Package testutil provides utilities for testing scriptbrowser components.
//
// Key components:
//   - TestEnvironment: a browsing root on an in-memory or temporary
//     filesystem, populated from a declarative FileTree
//   - MemoryFS: in-memory types.FS with per-operation error injection
//   - MockHost: a types.DocumentHost that records what it was asked to do
//   - Assertions for coded errors and entry listings
//
// Most tests should use EnvMemoryOnly. Symlink and permission cases need
// EnvIsolated, which works on a real temporary directory.
package testutil
