// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

// Storage backends accepted by Options.Storage.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// Storage selects the backend holding client storage partitions.
	Storage string `json:"storage"`

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string `json:"database_dsn"`

	// RedisAddr is the host:port of the redis backend.
	RedisAddr string `json:"redis_addr"`

	// DataDir is the directory used by the file backend.
	DataDir string `json:"data_dir"`

	// Prefix namespaces every storage key written by the application.
	Prefix string `json:"prefix"`

	// LogLevel is passed to the logger ("debug", "info", ...).
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// TimeZone is the IANA zone used to display login times. Empty means the
	// server's local zone.
	TimeZone string `json:"time_zone"`

	// Retention evicts storage partitions untouched for this long (postgres
	// backend only). Zero disables eviction.
	Retention Duration `json:"retention"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Duration is a time.Duration that reads as "90s"-style text in JSON.
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON writes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Location resolves TimeZone, falling back to time.Local.
func (o *Options) Location() (*time.Location, error) {
	if o.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", o.TimeZone, err)
	}
	return loc, nil
}

// Validate reports option combinations the server cannot start with.
func (o *Options) Validate() error {
	switch o.Storage {
	case StorageMemory, StorageFile:
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres storage requires a database DSN")
		}
	case StorageRedis:
		if o.RedisAddr == "" {
			return errors.New("redis storage requires a redis address")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("tls cert and key must be set together")
	}
	return nil
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values. Invalid input terminates the process.
func Parse() *Options {
	options, err := parse(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("error while parsing configuration: %v", err)
	}
	return options
}

// parse applies, in increasing precedence: flag defaults, the JSON config
// file, explicitly set flags, and environment variables.
func parse(args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}
	var retention time.Duration

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.Storage, "s", StorageMemory, "storage backend: memory | file | postgres | redis")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.RedisAddr, "r", "", "redis address")
	fs.StringVar(&options.DataDir, "data", "data", "directory for the file storage backend")
	fs.StringVar(&options.Prefix, "prefix", "authdemo-", "storage key prefix")
	fs.StringVar(&options.LogLevel, "l", "Info", "log level")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to TLS private key")
	fs.StringVar(&options.TimeZone, "tz", "", "time zone for displayed times")
	fs.DurationVar(&retention, "retention", 0, "evict storage partitions idle for this long (0 disables)")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	options.Retention = Duration(retention)

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
			// Flags given on the command line win over the file.
			for name, value := range explicit {
				if name == "config" || name == "c" {
					continue
				}
				if err := fs.Set(name, value); err != nil {
					return nil, err
				}
				if name == "retention" {
					options.Retention = Duration(retention)
				}
			}
		}
	}

	envOverrides := map[string]*string{
		"SERVER_ADDRESS":  &options.Port,
		"STORAGE_BACKEND": &options.Storage,
		"DATABASE_DSN":    &options.DatabaseDSN,
		"REDIS_ADDR":      &options.RedisAddr,
		"DATA_DIR":        &options.DataDir,
		"LOG_LEVEL":       &options.LogLevel,
		"TZ_NAME":         &options.TimeZone,
	}
	for name, dst := range envOverrides {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}

	return options, nil
}
