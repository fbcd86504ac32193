package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// Environment variable names
const (
	EnvConfigDir = "SCRIPTBROWSER_CONFIG_DIR"
	EnvDataDir   = "SCRIPTBROWSER_DATA_DIR"
	EnvStateDir  = "SCRIPTBROWSER_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directory and file names
const (
	AppDirName       = "scriptbrowser"
	ConfigFileName   = "config.toml"
	TemplatesDirName = "templates"
	LogFileName      = "scriptbrowser.log"
)

// Dirs holds the application directories.
type Dirs struct {
	Config string
	Data   string
	State  string
}

// NewDirs resolves the application directories from the environment.
func NewDirs() Dirs {
	return Dirs{
		Config: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		Data:   dirFromEnv(EnvDataDir, xdg.DataHome),
		State:  dirFromEnv(EnvStateDir, stateHome()),
	}
}

func dirFromEnv(envVar, xdgBase string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdgBase, AppDirName)
}

// stateHome honours XDG_STATE_HOME set after the xdg package initialised.
func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return xdg.StateHome
}

// ConfigFile returns the user configuration file path.
func (d Dirs) ConfigFile() string {
	return filepath.Join(d.Config, ConfigFileName)
}

// TemplatesDir returns the default user template directory.
func (d Dirs) TemplatesDir() string {
	return filepath.Join(d.Data, TemplatesDirName)
}

// LogFile returns the log file path.
func (d Dirs) LogFile() string {
	return filepath.Join(d.State, LogFileName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	// ~user is not expanded
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// Normalize expands ~, makes the path absolute and cleans it. Symlinks
// are left alone; see Resolver.Canonical.
func Normalize(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	return abs, nil
}
