package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/sortid/internal/debug"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
)

// LoadKDL loads configuration from a KDL file. It returns nil, nil when the
// file does not exist.
func LoadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// parseKDL reads a config document on top of the defaults:
//
//	generate { scheme "grouped"; count 10; format "json" }
//	verify { samples 100000; workers 4; seed 42 }
//	scheme "wide" { width 80; random_bits 40; separators 4 10 }
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	var errs []error
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "generate":
			for _, cn := range n.Children {
				switch name := nodeName(cn); name {
				case "scheme":
					errs = append(errs, setString(cn, "generate.scheme", &cfg.Generate.Scheme))
				case "count":
					errs = append(errs, setInt(cn, "generate.count", &cfg.Generate.Count))
				case "format":
					errs = append(errs, setString(cn, "generate.format", &cfg.Generate.Format))
				default:
					debug.LogConfig("ignoring unknown key generate.%s\n", name)
				}
			}
		case "verify":
			for _, cn := range n.Children {
				switch name := nodeName(cn); name {
				case "samples":
					errs = append(errs, setInt(cn, "verify.samples", &cfg.Verify.Samples))
				case "workers":
					errs = append(errs, setInt(cn, "verify.workers", &cfg.Verify.Workers))
				case "seed":
					var seed int
					if err := setInt(cn, "verify.seed", &seed); err != nil {
						errs = append(errs, err)
					} else if seed < 0 {
						errs = append(errs, sorterrors.NewConfigError("verify.seed", fmt.Sprint(seed), errNegative))
					} else {
						cfg.Verify.Seed = uint64(seed)
					}
				default:
					debug.LogConfig("ignoring unknown key verify.%s\n", name)
				}
			}
		case "scheme":
			def, err := parseSchemeNode(n)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			cfg.Schemes = append(cfg.Schemes, def)
		default:
			debug.LogConfig("ignoring unknown node %s\n", nodeName(n))
		}
	}

	if err := sorterrors.NewMultiError(errs).ErrOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSchemeNode(n *document.Node) (SchemeDef, error) {
	var def SchemeDef
	name, ok := firstStringArg(n)
	if !ok || strings.TrimSpace(name) == "" {
		return def, sorterrors.NewConfigError("scheme", "", errMissingName)
	}
	def.Name = name
	field := func(key string) string { return "scheme." + name + "." + key }

	var errs []error
	for _, cn := range n.Children {
		switch key := nodeName(cn); key {
		case "width":
			errs = append(errs, setUint(cn, field(key), &def.Width))
		case "random_bits":
			errs = append(errs, setUint(cn, field(key), &def.RandomBits))
		case "tick_shift":
			errs = append(errs, setUint(cn, field(key), &def.TickShift))
		case "separators":
			positions, err := collectIntArgs(cn, field(key))
			errs = append(errs, err)
			def.Separators = positions
		case "separator":
			errs = append(errs, setString(cn, field(key), &def.Separator))
		case "alias":
			errs = append(errs, setString(cn, field(key), &def.Alias))
		case "epoch":
			errs = append(errs, setString(cn, field(key), &def.Epoch))
		default:
			debug.LogConfig("ignoring unknown key %s\n", field(key))
		}
	}
	return def, sorterrors.NewMultiError(errs).ErrOrNil()
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func argString(n *document.Node) string {
	if len(n.Arguments) == 0 {
		return ""
	}
	return fmt.Sprint(n.Arguments[0].Value)
}

func setString(n *document.Node, field string, dst *string) error {
	s, ok := firstStringArg(n)
	if !ok {
		return sorterrors.NewConfigError(field, argString(n), errNotString)
	}
	*dst = s
	return nil
}

func setInt(n *document.Node, field string, dst *int) error {
	v, ok := firstIntArg(n)
	if !ok {
		return sorterrors.NewConfigError(field, argString(n), errNotInteger)
	}
	*dst = v
	return nil
}

func setUint(n *document.Node, field string, dst *uint) error {
	v, ok := firstIntArg(n)
	if !ok {
		return sorterrors.NewConfigError(field, argString(n), errNotInteger)
	}
	if v < 0 {
		return sorterrors.NewConfigError(field, fmt.Sprint(v), errNegative)
	}
	*dst = uint(v)
	return nil
}

// collectIntArgs reads inline integer arguments: separators 4 10
func collectIntArgs(n *document.Node, field string) ([]int, error) {
	out := make([]int, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		switch v := a.Value.(type) {
		case int64:
			out = append(out, int(v))
		default:
			return nil, sorterrors.NewConfigError(field, fmt.Sprint(a.Value), errNotInteger)
		}
	}
	return out, nil
}
