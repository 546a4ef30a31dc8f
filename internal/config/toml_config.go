package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	sorterrors "github.com/standardbeagle/sortid/internal/errors"
)

// tomlFile mirrors the KDL layout:
//
//	[generate]
//	scheme = "grouped"
//
//	[[scheme]]
//	name = "wide"
//	width = 80
type tomlFile struct {
	Version  int         `toml:"version"`
	Generate Generate    `toml:"generate"`
	Verify   Verify      `toml:"verify"`
	Scheme   []SchemeDef `toml:"scheme"`
}

// LoadTOML loads configuration from a TOML file. It returns nil, nil when
// the file does not exist.
func LoadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := parseTOML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func parseTOML(content []byte) (*Config, error) {
	cfg := Default()
	// Missing keys keep the defaults already in place.
	file := tomlFile{Version: cfg.Version, Generate: cfg.Generate, Verify: cfg.Verify}

	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, sorterrors.NewConfigError("toml", "", fmt.Errorf("unknown keys:\n%s", strict.String()))
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("failed to parse TOML config at %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	for _, s := range file.Scheme {
		if s.Name == "" {
			return nil, sorterrors.NewConfigError("scheme", "", errMissingName)
		}
	}

	cfg.Version = file.Version
	cfg.Generate = file.Generate
	cfg.Verify = file.Verify
	cfg.Schemes = file.Scheme
	return cfg, nil
}
