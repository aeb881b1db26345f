package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParse_Defaults(t *testing.T) {
	opts, err := parse([]string{"-c", filepath.Join(t.TempDir(), "absent.json")}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Port)
	assert.Equal(t, StorageMemory, opts.Storage)
	assert.Equal(t, "authdemo-", opts.Prefix)
	assert.Equal(t, "Info", opts.LogLevel)
	assert.Equal(t, Duration(0), opts.Retention)
	assert.NoError(t, opts.Validate())
}

func TestParse_Flags(t *testing.T) {
	opts, err := parse([]string{
		"-a", ":9000",
		"-s", "redis",
		"-r", "localhost:6379",
		"-retention", "48h",
		"-tz", "UTC",
		"-c", "",
	}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Port)
	assert.Equal(t, StorageRedis, opts.Storage)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
	assert.Equal(t, Duration(48*time.Hour), opts.Retention)
	assert.NoError(t, opts.Validate())
}

func TestParse_ConfigFileAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"address": ":7000",
		"storage": "postgres",
		"database_dsn": "postgres://file",
		"prefix": "file-",
		"retention": "1h"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := parse([]string{"-c", path, "-prefix", "flag-"}, envFrom(map[string]string{
		"DATABASE_DSN": "postgres://env",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":7000", opts.Port, "file overrides defaults")
	assert.Equal(t, StoragePostgres, opts.Storage)
	assert.Equal(t, "flag-", opts.Prefix, "explicit flag overrides file")
	assert.Equal(t, "postgres://env", opts.DatabaseDSN, "env overrides everything")
	assert.Equal(t, Duration(time.Hour), opts.Retention)
}

func TestParse_ConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":"file","data_dir":"/tmp/x"}`), 0o600))

	opts, err := parse(nil, envFrom(map[string]string{"CONFIG": path, "SERVER_ADDRESS": ":1234"}))
	require.NoError(t, err)

	assert.Equal(t, StorageFile, opts.Storage)
	assert.Equal(t, "/tmp/x", opts.DataDir)
	assert.Equal(t, ":1234", opts.Port)
}

func TestParse_Errors(t *testing.T) {
	_, err := parse([]string{"-unknown"}, envFrom(nil))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = parse([]string{"-c", path}, envFrom(nil))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"memory", Options{Storage: StorageMemory}, false},
		{"file", Options{Storage: StorageFile}, false},
		{"postgres without dsn", Options{Storage: StoragePostgres}, true},
		{"postgres", Options{Storage: StoragePostgres, DatabaseDSN: "dsn"}, false},
		{"redis without addr", Options{Storage: StorageRedis}, true},
		{"unknown backend", Options{Storage: "localStorage"}, true},
		{"cert without key", Options{Storage: StorageMemory, TLSCert: "c"}, true},
		{"cert and key", Options{Storage: StorageMemory, TLSCert: "c", TLSKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := (&Options{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = (&Options{TimeZone: "UTC"}).Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = (&Options{TimeZone: "Not/AZone"}).Location()
	assert.Error(t, err)
}
