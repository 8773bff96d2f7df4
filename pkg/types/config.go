package types

import (
	"errors"
	"time"
)

// Config holds backend selection and session parameters for a client.
type Config struct {
	Backend          string        `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir          string        `json:"data_dir" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	SessionTTL       time.Duration `json:"session_ttl" yaml:"session_ttl,omitempty" mapstructure:"session_ttl"`
	DefaultEmail     string        `json:"default_email" yaml:"default_email,omitempty" mapstructure:"default_email"`
	BootstrapSession bool          `json:"bootstrap_session" yaml:"bootstrap_session,omitempty" mapstructure:"bootstrap_session"`
	JWTSecret        string        `json:"jwt_secret" yaml:"jwt_secret,omitempty" mapstructure:"jwt_secret"`
	PublicURLBase    string        `json:"public_url_base" yaml:"public_url_base,omitempty" mapstructure:"public_url_base"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Defaults applied by WithDefaults.
const (
	DefaultSessionTTL    = time.Hour
	DefaultEmail         = "admin@localbase.dev"
	DefaultJWTSecret     = "localbase-development-secret"
	DefaultPublicURLBase = "http://localhost:54321"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataDirEmpty   = errors.New("data directory must not be empty for a durable backend")
	ErrInvalidTTL     = errors.New("session ttl must be positive")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend != BackendMemory && c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.SessionTTL < 0 {
		return ErrInvalidTTL
	}
	return nil
}

// WithDefaults returns a copy of c with zero-valued session fields filled in.
func (c Config) WithDefaults() Config {
	if c.SessionTTL == 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.DefaultEmail == "" {
		c.DefaultEmail = DefaultEmail
	}
	if c.JWTSecret == "" {
		c.JWTSecret = DefaultJWTSecret
	}
	if c.PublicURLBase == "" {
		c.PublicURLBase = DefaultPublicURLBase
	}
	return c
}
