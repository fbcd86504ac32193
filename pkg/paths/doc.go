// Package paths resolves and guards the filesystem locations scriptbrowser
// works with.
//
// # Browsing root
//
// Resolver.Resolve computes the browsing root from the configured root and
// the active document. A configured root that exists wins; otherwise the
// active document's folder is used, or with auto-detection the nearest
// ancestor holding one of the root markers. Roots are returned canonical:
// home expanded, absolute, cleaned and with symlinks evaluated.
//
// # Containment
//
// Every path derived from user input goes through JoinWithin, which fails
// with OUTSIDE_ROOT when the result escapes the root either lexically or
// through a symlink.
//
// # Application directories
//
// Dirs follows the XDG Base Directory layout:
//
//   - Config: $XDG_CONFIG_HOME/scriptbrowser (config.toml)
//   - Data: $XDG_DATA_HOME/scriptbrowser (templates/)
//   - State: $XDG_STATE_HOME/scriptbrowser (scriptbrowser.log)
//
// SCRIPTBROWSER_CONFIG_DIR, SCRIPTBROWSER_DATA_DIR and
// SCRIPTBROWSER_STATE_DIR override each location.
package paths
