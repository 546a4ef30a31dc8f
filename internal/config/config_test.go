package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sorterrors "github.com/standardbeagle/sortid/internal/errors"
)

// isolate points HOME at an empty directory and changes into a fresh
// working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultScheme, cfg.Generate.Scheme)
	assert.GreaterOrEqual(t, cfg.Verify.Workers, 1)
}

func TestLoad_FindsKDLBeforeTOML(t *testing.T) {
	_, work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, DefaultKDLFile), []byte(`generate { count 5 }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(work, DefaultTOMLFile), []byte("[generate]\ncount = 7\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Generate.Count)
	assert.Equal(t, DefaultKDLFile, filepath.Base(cfg.Path))
}

func TestLoad_FindsTOML(t *testing.T) {
	_, work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, DefaultTOMLFile), []byte("[generate]\ncount = 7\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Generate.Count)
}

func TestLoad_ExplicitMissingPathFails(t *testing.T) {
	_, work := isolate(t)

	for _, name := range []string{"nope.kdl", "nope.toml"} {
		path := filepath.Join(work, name)
		_, err := Load(path)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, sorterrors.ErrConfig)
		assert.Contains(t, err.Error(), path)
	}
}

func TestLoad_MissingGlobalUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFile(filepath.Join(os.Getenv("HOME"), DefaultKDLFile))
	require.NoError(t, err)
	assert.Nil(t, cfg, "an absent optional file is not an error")
}

func TestLoad_GlobalSchemesMerge(t *testing.T) {
	home, work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, DefaultKDLFile), []byte(`
generate { count 9 }
scheme "shared" { width 40; random_bits 10 }
scheme "mine" { width 40; random_bits 10 }
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(work, DefaultKDLFile), []byte(`
generate { scheme "mine" }
scheme "mine" { width 60; random_bits 20 }
`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	// Project settings win, including defaults it did not override.
	assert.Equal(t, DefaultCount, cfg.Generate.Count)
	assert.Equal(t, "mine", cfg.Generate.Scheme)

	mine, err := cfg.Scheme("mine")
	require.NoError(t, err)
	assert.Equal(t, uint(60), mine.Width())

	_, err = cfg.Scheme("shared")
	assert.NoError(t, err)
}

func TestLoad_GlobalOnly(t *testing.T) {
	home, _ := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, DefaultKDLFile), []byte(`generate { format "hex" }`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatHex, cfg.Generate.Format)
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "bad.kdl")
	require.NoError(t, os.WriteFile(path, []byte(`generate { scheme "grouped2" }`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestMergeConfigs(t *testing.T) {
	base := &Config{Schemes: []SchemeDef{{Name: "a"}, {Name: "B"}}}
	project := &Config{Generate: Generate{Count: 3}, Schemes: []SchemeDef{{Name: "b", Width: 8}}}

	merged := mergeConfigs(base, project)
	assert.Equal(t, 3, merged.Generate.Count)
	assert.Equal(t, []SchemeDef{{Name: "a"}, {Name: "b", Width: 8}}, merged.Schemes)
	assert.Len(t, project.Schemes, 1, "project config is not modified")
}
