package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "vinparser"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. VINPARSER_OUTPUT.
	EnvPrefix = "VINPARSER"

	maxConfigSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFilePath is used exclusively when set (the --config flag).
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir() when set.
	ConfigDirPath string
}

// ConfigDir returns the vinparser configuration directory:
// $XDG_CONFIG_HOME/vinparser on Linux and the platform equivalent elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultPath returns the config file path inside dir, or inside
// ConfigDir() when dir is empty.
func DefaultPath(dir string) (string, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load resolves the configuration. It returns the config and the path of
// the file it was read from, or "" when only defaults and the environment
// applied.
//
// Lookup order: opts.ConfigFilePath, then config.cue in the config
// directory, then config.cue in the working directory.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output", string(defaults.Output))
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("dataset", defaults.Dataset)
	v.SetDefault("normalize", defaults.Normalize)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("unknown", defaults.Unknown)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", err
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := DefaultPath(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		localPath := ConfigFileName + "." + ConfigFileExt

		for _, p := range []string{cuePath, localPath} {
			if !fileExists(p) {
				continue
			}
			if err := loadCUEIntoViper(v, p); err != nil {
				return nil, "", err
			}
			resolvedPath = p
			break
		}
		// No file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against #Config and
// merges its values into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("%s: config file is %d bytes, limit is %d", path, len(data), maxConfigSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func formatError(err error, path string) error {
	details := strings.TrimSpace(cueerrors.Details(err, nil))
	return fmt.Errorf("invalid config file %s:\n%s", path, details)
}

// GenerateCUE renders cfg as a config.cue file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// vinparser configuration\n\n")
	fmt.Fprintf(&sb, "output: %q\n", string(cfg.Output))
	fmt.Fprintf(&sb, "workers: %d\n", cfg.Workers)
	fmt.Fprintf(&sb, "dataset: %q\n", cfg.Dataset)
	fmt.Fprintf(&sb, "normalize: %v\n", cfg.Normalize)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "strict: %v\n", cfg.Strict)
	fmt.Fprintf(&sb, "unknown: %q\n", cfg.Unknown)

	return sb.String()
}

// CreateDefaultConfig writes a default config.cue into dir (ConfigDir()
// when empty) and returns its path. An existing file is left untouched.
func CreateDefaultConfig(dir string) (string, error) {
	path, err := DefaultPath(dir)
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil { //nolint:gosec // config is not secret
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
