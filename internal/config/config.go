package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/sortid/internal/debug"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

const (
	DefaultKDLFile  = ".sortid.kdl"
	DefaultTOMLFile = ".sortid.toml"

	DefaultScheme  = "compact"
	DefaultCount   = 1
	DefaultFormat  = FormatText
	DefaultSamples = 100000
	DefaultSeed    = 1
)

// Output formats for generated identifiers
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHex  = "hex"
	FormatYAML = "yaml"
)

var Formats = []string{FormatText, FormatJSON, FormatHex, FormatYAML}

type Config struct {
	Version  int
	Path     string // file the project config was read from, empty for defaults
	Generate Generate
	Verify   Verify
	Schemes  []SchemeDef

	// built by the validator from Schemes
	custom map[string]*idcodec.Scheme
}

type Generate struct {
	Scheme string `toml:"scheme"`
	Count  int    `toml:"count"`
	Format string `toml:"format"` // "text", "json", "hex", "yaml"
}

type Verify struct {
	Samples int    `toml:"samples"`
	Workers int    `toml:"workers"` // 0 = auto-detect (GOMAXPROCS)
	Seed    uint64 `toml:"seed"`
}

// SchemeDef declares a custom scheme. Zero TickShift means millisecond
// ticks; empty Epoch means 2020-01-01T00:00:00Z.
type SchemeDef struct {
	Name       string `toml:"name"`
	Width      uint   `toml:"width"`
	RandomBits uint   `toml:"random_bits"`
	TickShift  uint   `toml:"tick_shift"`
	Separators []int  `toml:"separators"`
	Separator  string `toml:"separator"`
	Alias      string `toml:"alias"`
	Epoch      string `toml:"epoch"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Generate: Generate{
			Scheme: DefaultScheme,
			Count:  DefaultCount,
			Format: DefaultFormat,
		},
		Verify: Verify{
			Samples: DefaultSamples,
			Seed:    DefaultSeed,
		},
	}
}

// Load reads the project config at path, or finds .sortid.kdl then
// .sortid.toml in the working directory when path is empty. Schemes from
// the user's global ~/.sortid.kdl are added underneath. With no project
// file found the defaults apply, but an explicit path must exist. The result
// is validated.
func Load(path string) (*Config, error) {
	var base *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		globalCfg, err := LoadFile(filepath.Join(homeDir, DefaultKDLFile))
		if err != nil {
			return nil, fmt.Errorf("global config: %w", err)
		}
		base = globalCfg
	}

	explicit := path != ""
	if !explicit {
		path = findProjectConfig(".")
	}
	var project *Config
	if path != "" {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if cfg == nil && explicit {
			return nil, sorterrors.NewConfigError("config", path, ErrNotFound)
		}
		project = cfg
	}

	var cfg *Config
	switch {
	case base != nil && project != nil:
		cfg = mergeConfigs(base, project)
	case project != nil:
		cfg = project
	case base != nil:
		cfg = base
	default:
		cfg = Default()
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	debug.LogConfig("loaded %q: scheme=%s count=%d format=%s custom=%d\n",
		cfg.Path, cfg.Generate.Scheme, cfg.Generate.Count, cfg.Generate.Format, len(cfg.Schemes))
	return cfg, nil
}

// LoadFile reads one config file, choosing the parser by extension.
// It returns nil, nil when the file does not exist.
func LoadFile(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(path)
	}
	return LoadKDL(path)
}

func findProjectConfig(dir string) string {
	for _, name := range []string{DefaultKDLFile, DefaultTOMLFile} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// mergeConfigs keeps every project setting and adds base schemes the
// project does not redefine.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	defined := make(map[string]bool, len(project.Schemes))
	for _, s := range project.Schemes {
		defined[strings.ToLower(s.Name)] = true
	}

	merged.Schemes = make([]SchemeDef, 0, len(base.Schemes)+len(project.Schemes))
	for _, s := range base.Schemes {
		if !defined[strings.ToLower(s.Name)] {
			merged.Schemes = append(merged.Schemes, s)
		}
	}
	merged.Schemes = append(merged.Schemes, project.Schemes...)

	return &merged
}

// Scheme resolves name against custom schemes first, then built-ins.
// The config must have been validated.
func (c *Config) Scheme(name string) (*idcodec.Scheme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := c.custom[key]; ok {
		return s, nil
	}
	if s, ok := idcodec.Lookup(key); ok {
		return s, nil
	}
	return nil, unknownSchemeError("scheme", name, c.SchemeNames())
}

// SchemeNames returns built-in and custom scheme names, sorted.
func (c *Config) SchemeNames() []string {
	names := idcodec.BuiltinNames()
	for name := range c.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CustomSchemes returns the validated custom schemes sorted by name.
func (c *Config) CustomSchemes() []*idcodec.Scheme {
	out := make([]*idcodec.Scheme, 0, len(c.custom))
	for _, s := range c.custom {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
