package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid file config",
			config: Config{Backend: BackendFile, DataDir: "/tmp/data"},
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "memory needs no data dir",
			config: Config{Backend: BackendMemory},
		},
		{
			name:    "file without data dir",
			config:  Config{Backend: BackendFile},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "sqlite without data dir",
			config:  Config{Backend: BackendSQLite},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "negative ttl",
			config:  Config{Backend: BackendMemory, SessionTTL: -time.Second},
			wantErr: ErrInvalidTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{Backend: BackendMemory}.WithDefaults()
	assert.Equal(t, DefaultSessionTTL, got.SessionTTL)
	assert.Equal(t, DefaultEmail, got.DefaultEmail)
	assert.Equal(t, DefaultJWTSecret, got.JWTSecret)
	assert.Equal(t, DefaultPublicURLBase, got.PublicURLBase)

	custom := Config{SessionTTL: time.Minute, DefaultEmail: "me@example.com"}.WithDefaults()
	assert.Equal(t, time.Minute, custom.SessionTTL)
	assert.Equal(t, "me@example.com", custom.DefaultEmail)
}
