package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	recerr "github.com/balkashynov/record/internal/errors"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. HOTOKU_RECORD_DBFILE for dbfile.
const EnvPrefix = "HOTOKU_RECORD"

// Keys understood by the config layer.
const (
	KeyDBFile  = "dbfile"
	KeyName    = "name"
	KeyLogFile = "logfile"
	KeyDebug   = "debug"
)

// Config holds the values the core needs from the outside world.
type Config struct {
	// DBFile is the sqlite file holding the records table
	DBFile string `mapstructure:"dbfile"`
	// Name is printed in every listing row. Required by print, no default.
	Name string `mapstructure:"name"`
	// LogFile receives the trace lines
	LogFile string `mapstructure:"logfile"`
	// Debug raises the trace level to DEBUG
	Debug bool `mapstructure:"debug"`
}

// Dir returns the directory holding record's files (~/.record).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".record"
	}
	return filepath.Join(home, ".record")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DBFile:  filepath.Join(Dir(), "db.sqlite"),
		LogFile: filepath.Join(Dir(), "log.txt"),
	}
}

// NewViper returns a viper instance with defaults, environment bindings and
// the config search path registered. Callers may bind flags to it before
// passing it to Load.
func NewViper() *viper.Viper {
	v := viper.New()
	defaults := Default()
	v.SetDefault(KeyDBFile, defaults.DBFile)
	v.SetDefault(KeyLogFile, defaults.LogFile)
	v.SetDefault(KeyDebug, defaults.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// name has no default, so Unmarshal only sees it through an explicit binding
	for _, key := range []string{KeyDBFile, KeyName, KeyLogFile, KeyDebug} {
		_ = v.BindEnv(key)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	return v
}

// Load resolves the configuration from v. An optional .env file in the config
// directory is loaded first; it never overrides variables already set.
func Load(v *viper.Viper) (*Config, error) {
	envFile := filepath.Join(Dir(), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, recerr.NewConfigError(".env", "failed to load "+envFile, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !recerr.As(err, &notFound) {
			return nil, recerr.NewConfigError("config", "failed to read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, recerr.NewConfigError("config", "failed to decode configuration", err)
	}

	cfg.DBFile = ExpandHome(cfg.DBFile)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	if cfg.DBFile == "" {
		return nil, recerr.NewConfigError(KeyDBFile, "storage file path is empty", recerr.ErrMissingConfig)
	}
	return cfg, nil
}

// DisplayName returns the configured name or a ConfigError when it is unset.
func (c *Config) DisplayName() (string, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return "", recerr.NewConfigError(KeyName,
			"display name is required (set "+EnvPrefix+"_NAME)", recerr.ErrMissingConfig)
	}
	return name, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
