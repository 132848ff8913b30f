package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvURI, "")
	t.Setenv(EnvDatabase, "")
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvURI, "sqlite::memory:")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{URI: "sqlite::memory:", Database: DefaultDatabase}, cfg)
}

func TestLoadFile_MissingURI(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorIs(t, err, ErrMissingURI)
	assert.Contains(t, err.Error(), ".env")
	assert.Contains(t, err.Error(), EnvURI+"=")
}

func TestLoadFile_BlankURIIsMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvURI, "   ")

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorIs(t, err, ErrMissingURI)
}

func TestLoadFile_DotEnv(t *testing.T) {
	clearEnv(t)
	path := writeDotEnv(t, "MANGOOSE_URI=sqlite://people.db\nMANGOOSE_DB=demo\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://people.db", cfg.URI)
	assert.Equal(t, "demo", cfg.Database)

	// The file does not leak into the process environment.
	assert.Empty(t, os.Getenv(EnvURI))
}

func TestLoadFile_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvURI, "sqlite::memory:")
	path := writeDotEnv(t, "MANGOOSE_URI=sqlite://people.db\nMANGOOSE_DB=demo\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite::memory:", cfg.URI)
	assert.Equal(t, "demo", cfg.Database)
}

func TestLoadFile_Unreadable(t *testing.T) {
	clearEnv(t)

	// A directory cannot be parsed as a dotenv file.
	_, err := LoadFile(t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingURI)
}

func TestLoad_UsesWorkingDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("MANGOOSE_URI=:memory:\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.URI)
}

func TestLoadFile_IgnoresMongoURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	path := writeDotEnv(t, "MONGO_URI=mongodb://localhost:27017/demo\n")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrMissingURI)
}
