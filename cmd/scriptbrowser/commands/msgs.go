package commands

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort            = "Browse and edit the folder of the script you are working on"
	MsgLsShort              = "List the current folder"
	MsgTreeShort            = "List the folder with subfolders expanded"
	MsgSearchShort          = "Filter the folder by name"
	MsgMkfileShort          = "Create an empty file"
	MsgMkdirShort           = "Create a folder"
	MsgNewShort             = "Create a file from a template"
	MsgRmShort              = "Delete files and folders"
	MsgMvShort              = "Move an entry into another folder"
	MsgRenameShort          = "Rename an entry"
	MsgDupShort             = "Duplicate an entry next to itself"
	MsgInsertShort          = "Insert a template into a document"
	MsgTemplatesShort       = "Manage file templates"
	MsgTemplatesLsShort     = "List available templates"
	MsgTemplatesShowShort   = "Show a template and its placeholders"
	MsgTemplatesAddShort    = "Add a user template"
	MsgTemplatesRmShort     = "Remove a user template"
	MsgTemplatesRenderShort = "Print a rendered template"
	MsgRootsShort           = "Manage extra browsing roots"
	MsgRootsLsShort         = "List configured roots"
	MsgRootsAddShort        = "Add a root to the config"
	MsgRootsRmShort         = "Remove a root from the config"
	MsgConfigShort          = "Inspect and create the configuration"
	MsgConfigShowShort      = "Print the effective configuration"
	MsgConfigPathShort      = "Print the config file path"
	MsgConfigInitShort      = "Write the default configuration file"
	MsgBrowseShort          = "Start an interactive browsing session"
	MsgTopicsShort          = "Display available documentation topics"
	MsgVersionShort         = "Print version information"
	MsgCompletionShort      = "Generate shell completion script"
	MsgManShort             = "Print the man page"

	// Status messages
	MsgBrowsePrompt    = "› "
	MsgBrowseBye       = "bye"
	MsgBrowseUnknown   = "unknown command %q, type help"
	MsgBrowseUsage     = "usage: %s"
	MsgConfigWritten   = "Wrote %s"
	MsgRootAdded       = "Added root %s"
	MsgRootRemoved     = "Removed root %s"
	MsgTemplateAdded   = "Added template %s"
	MsgTemplateRemoved = "Removed template %s"
	MsgSaved           = "Saved %d document(s)"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrConfigExists  = "%s already exists (use --force to overwrite)"
	MsgErrBadSet        = "invalid --set %q, want key=value"
	MsgErrDeleteFailed  = "%d item(s) could not be deleted"
	MsgErrRootNotListed = "%s is not a configured root"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (default $XDG_CONFIG_HOME/scriptbrowser/config.toml)"
	MsgFlagRoot       = "Folder to browse, overrides root.path"
	MsgFlagDoc        = "Active document; its folder is browsed when no root is set"
	MsgFlagFormat     = "Output format: auto, term, text, json or yaml"
	MsgFlagShowHidden = "Show hidden files"
	MsgFlagIn         = "Folder to work in, relative to the root"
	MsgFlagSet        = "Placeholder value as key=value (repeatable)"
	MsgFlagPermanent  = "Delete permanently instead of moving to the trash"
	MsgFlagYes        = "Approve confirmations without asking"
	MsgFlagRecursive  = "Search the whole subtree"
	MsgFlagFuzzy      = "Rank results by fuzzy match"
	MsgFlagLimit      = "Maximum number of results (0 = no limit)"
	MsgFlagDepth      = "Levels to expand (0 = all)"
	MsgFlagAtCursor   = "Insert at --line/--col instead of the end"
	MsgFlagLine       = "Cursor line, 1-based"
	MsgFlagCol        = "Cursor column, 1-based"
	MsgFlagFrom       = "Read the template body from this file (default stdin)"
	MsgFlagBody       = "Include the template body"
	MsgFlagForce      = "Overwrite an existing file"
	MsgFlagWatch      = "Refresh the view when folders change on disk"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/ls-example.txt
	msgLsExampleRaw string
	MsgLsExample    = strings.TrimRight(msgLsExampleRaw, "\n")

	//go:embed msgs/search-long.txt
	msgSearchLongRaw string
	MsgSearchLong    = strings.TrimSpace(msgSearchLongRaw)

	//go:embed msgs/rm-long.txt
	msgRmLongRaw string
	MsgRmLong    = strings.TrimSpace(msgRmLongRaw)

	//go:embed msgs/new-long.txt
	msgNewLongRaw string
	MsgNewLong    = strings.TrimSpace(msgNewLongRaw)

	//go:embed msgs/new-example.txt
	msgNewExampleRaw string
	MsgNewExample    = strings.TrimRight(msgNewExampleRaw, "\n")

	//go:embed msgs/insert-long.txt
	msgInsertLongRaw string
	MsgInsertLong    = strings.TrimSpace(msgInsertLongRaw)

	//go:embed msgs/templates-long.txt
	msgTemplatesLongRaw string
	MsgTemplatesLong    = strings.TrimSpace(msgTemplatesLongRaw)

	//go:embed msgs/browse-long.txt
	msgBrowseLongRaw string
	MsgBrowseLong    = strings.TrimSpace(msgBrowseLongRaw)

	//go:embed msgs/browse-help.txt
	MsgBrowseHelp string

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/no-root.txt
	msgNoRootRaw string
	MsgNoRoot    = strings.TrimSpace(msgNoRootRaw)
)
