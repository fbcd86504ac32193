// Package config loads scriptbrowser settings.
//
// Layers, lowest priority first:
//
//  1. embedded/defaults.toml
//  2. the user config.toml ($XDG_CONFIG_HOME/scriptbrowser/config.toml)
//  3. SCRIPTBROWSER_* environment variables, where a double underscore
//     separates nesting levels: SCRIPTBROWSER_SEARCH__RECURSIVE=true
//  4. explicit overrides, usually command-line flags
//
// Save writes a Config back as TOML.
package config
