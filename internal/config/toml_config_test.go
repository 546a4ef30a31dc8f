package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOML_Full(t *testing.T) {
	content := `
[generate]
scheme = "wide"
count = 4
format = "hex"

[verify]
samples = 2000
seed = 9

[[scheme]]
name = "wide"
width = 80
random_bits = 40
separators = [4, 10]
alias = "strict"
`
	cfg, err := parseTOML([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, Generate{Scheme: "wide", Count: 4, Format: "hex"}, cfg.Generate)
	assert.Equal(t, 2000, cfg.Verify.Samples)
	assert.Equal(t, uint64(9), cfg.Verify.Seed)
	require.Len(t, cfg.Schemes, 1)
	assert.Equal(t, []int{4, 10}, cfg.Schemes[0].Separators)
	assert.Equal(t, uint(40), cfg.Schemes[0].RandomBits)
}

func TestParseTOML_KeepsDefaults(t *testing.T) {
	cfg, err := parseTOML([]byte("[generate]\ncount = 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Generate.Count)
	assert.Equal(t, DefaultScheme, cfg.Generate.Scheme)
	assert.Equal(t, FormatText, cfg.Generate.Format)
	assert.Equal(t, DefaultSamples, cfg.Verify.Samples)
	assert.Equal(t, 1, cfg.Version)
}

func TestParseTOML_Errors(t *testing.T) {
	_, err := parseTOML([]byte("[generate]\ncolour = \"blue\"\n"))
	assert.ErrorContains(t, err, "unknown keys")

	_, err = parseTOML([]byte("[generate]\ncount = \"ten\"\n"))
	assert.ErrorContains(t, err, "failed to parse TOML config")

	_, err = parseTOML([]byte("[[scheme]]\nwidth = 8\n"))
	assert.ErrorIs(t, err, errMissingName)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultTOMLFile)

	cfg, err := LoadTOML(path)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, os.WriteFile(path, []byte("[verify]\nworkers = 2\n"), 0644))
	cfg, err = LoadTOML(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verify.Workers)
	assert.Equal(t, path, cfg.Path)
}
