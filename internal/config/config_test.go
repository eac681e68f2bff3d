package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "lep.yaml", `
eol: crlf
encoding: ISO-8859-1
journal: /var/lib/lep/journal.db
quiet: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crlf", cfg.EOL)
	assert.Equal(t, "ISO-8859-1", cfg.Encoding)
	assert.Equal(t, "/var/lib/lep/journal.db", cfg.Journal)
	assert.True(t, cfg.Quiet)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "lep.yaml", "eol: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDiscover_ExplicitWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "lep.yaml", "eol: lf\n")
	explicit := writeConfig(t, t.TempDir(), "other.yaml", "eol: crlf\n")

	cfg, err := Discover(explicit, root)
	require.NoError(t, err)
	assert.Equal(t, "crlf", cfg.EOL)
}

func TestDiscover_ExplicitMissingIsError(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	assert.Error(t, err)
}

func TestDiscover_RootDefault(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, DefaultFileName, "journal: j.db\n")

	cfg, err := Discover("", root)
	require.NoError(t, err)
	assert.Equal(t, "j.db", cfg.Journal)
}

func TestDiscover_NoFileIsZeroConfig(t *testing.T) {
	cfg, err := Discover("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}
