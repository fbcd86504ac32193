package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "SCRIPTBROWSER_"

// LoadOptions selects the layers Load reads.
type LoadOptions struct {
	// ConfigFile is the user config. Empty means the XDG location.
	ConfigFile string
	// Overrides are applied last, keyed by dotted path ("listing.show_hidden").
	Overrides map[string]interface{}
	// SkipEnv disables the environment layer.
	SkipEnv bool
}

// Load builds the configuration from all layers.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	k, err := newKoanf(opts)
	if err != nil {
		return nil, err
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "invalid configuration")
	}

	logger.Debug().
		Str("configFile", configFilePath(opts)).
		Str("root", cfg.Root.Path).
		Msg("Configuration loaded")
	return cfg, nil
}

// Default returns the embedded defaults only.
func Default() *Config {
	cfg, err := Load(LoadOptions{ConfigFile: os.DevNull, SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary.
		panic(err)
	}
	return cfg
}

func configFilePath(opts LoadOptions) string {
	if opts.ConfigFile != "" {
		return opts.ConfigFile
	}
	return paths.NewDirs().ConfigFile()
}

func newKoanf(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config, if present
	path := configFilePath(opts)
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, nil
}

// envKey maps SCRIPTBROWSER_SEARCH__MAX_RESULTS to search.max_results.
// Variables that are not configuration keys (the directory overrides)
// are dropped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	if cfg.Templates.Defaults == nil {
		cfg.Templates.Defaults = map[string]string{}
	}
	return &cfg, nil
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigSave, "failed to encode configuration")
	}
	return data, nil
}

// Save writes cfg to path, creating parent folders. The file is replaced
// through a rename so a failed write leaves the previous config intact.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "refusing to save invalid configuration")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to create %s", filepath.Dir(path))
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to replace %s", path)
	}

	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Msg("Configuration saved")
	return nil
}
