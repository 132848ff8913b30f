// Package config resolves connection settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvURI      = "MANGOOSE_URI"
	EnvDatabase = "MANGOOSE_DB"

	// DefaultDatabase is used when MANGOOSE_DB is unset.
	DefaultDatabase = "mangoose"

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// ErrMissingURI is returned when no connection URI is configured.
var ErrMissingURI = errors.New("missing " + EnvURI + ": create a " + DotEnvFile +
	" file containing " + EnvURI + "=<uri> or export it (e.g. " + EnvURI + "=sqlite://mangoose.db)")

// Config holds connection settings.
type Config struct {
	URI      string
	Database string
}

// Load reads ./.env (if any) and the process environment.
func Load() (Config, error) {
	return LoadFile(DotEnvFile)
}

// LoadFile is Load with an explicit dotenv path. Variables set in the
// process environment take precedence over the file. The process
// environment is never modified.
func LoadFile(path string) (Config, error) {
	file, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	}

	cfg := Config{
		URI:      lookup(EnvURI),
		Database: lookup(EnvDatabase),
	}
	if cfg.URI == "" {
		return Config{}, ErrMissingURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	return cfg, nil
}
