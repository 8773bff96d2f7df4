package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/localbase/internal/paths"
	"github.com/mesh-intelligence/localbase/pkg/localbase"
	"github.com/mesh-intelligence/localbase/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "LOCALBASE"

	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeySessionTTL       = "session_ttl"
	cfgKeyDefaultEmail     = "default_email"
	cfgKeyBootstrapSession = "bootstrap_session"
	cfgKeyJWTSecret        = "jwt_secret"
	cfgKeyPublicURLBase    = "public_url_base"

	defaultBackend = types.BackendFile
)

// configFile is the document init writes to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	SessionTTL   string `yaml:"session_ttl"`
	DefaultEmail string `yaml:"default_email"`
}

// loadConfig reads config.yaml from configDir with viper. Keys may be
// overridden by LOCALBASE_* environment variables. A missing config.yaml
// is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeySessionTTL, types.DefaultSessionTTL)
	v.SetDefault(cfgKeyDefaultEmail, types.DefaultEmail)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// clientConfig turns the loaded settings into a client Config, resolving
// the data directory against the --data-dir flag and the environment.
func clientConfig(v *viper.Viper) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:          v.GetString(cfgKeyBackend),
		DataDir:          dataDir,
		SessionTTL:       v.GetDuration(cfgKeySessionTTL),
		DefaultEmail:     v.GetString(cfgKeyDefaultEmail),
		BootstrapSession: v.GetBool(cfgKeyBootstrapSession),
		JWTSecret:        v.GetString(cfgKeyJWTSecret),
		PublicURLBase:    v.GetString(cfgKeyPublicURLBase),
	}, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left alone.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:      defaultBackend,
		DataDir:      dataDir,
		SessionTTL:   types.DefaultSessionTTL.String(),
		DefaultEmail: types.DefaultEmail,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// newLogger returns a console logger on w: info level, debug with --verbose.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// openClient loads configuration and opens a client. The caller must Close
// it.
func openClient(cmd *cobra.Command) (*localbase.Client, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysError("resolve config dir: %v", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, sysError("%v", err)
	}
	cfg, err := clientConfig(v)
	if err != nil {
		return nil, sysError("%v", err)
	}

	log := newLogger(cmd.ErrOrStderr())
	log.Debug().Str("config", filepath.Join(configDir, configFileExt)).Str("backend", cfg.Backend).Msg("loaded config")

	client, err := localbase.New(cfg, localbase.WithLogger(log))
	if err != nil {
		return nil, sysError("open %s backend: %v", cfg.Backend, err)
	}
	return client, nil
}
