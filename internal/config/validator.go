package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/sortid/internal/encoding"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

// SuggestThreshold is the minimum Jaro-Winkler similarity for a "did you
// mean" suggestion.
const SuggestThreshold = 0.7

var (
	errMissingName = errors.New("scheme name cannot be empty")
	errNotString   = errors.New("expected a string")
	errNotInteger  = errors.New("expected an integer")
	errNegative    = errors.New("must not be negative")
	ErrUnknown     = errors.New("unknown scheme")
	ErrNotFound    = errors.New("config file not found")
)

// Validator validates configuration, builds custom schemes and sets
// defaults.
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and applies defaults.
// Custom schemes are built first so generate.scheme may name one.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	custom, err := v.buildSchemes(cfg.Schemes)
	if err != nil {
		return err
	}
	cfg.custom = custom

	v.setDefaults(cfg)

	if err := v.validateGenerate(cfg); err != nil {
		return err
	}
	return v.validateVerify(&cfg.Verify)
}

func (v *Validator) buildSchemes(defs []SchemeDef) (map[string]*idcodec.Scheme, error) {
	custom := make(map[string]*idcodec.Scheme, len(defs))
	var errs []error
	for _, def := range defs {
		key := strings.ToLower(strings.TrimSpace(def.Name))
		field := "scheme." + def.Name
		switch {
		case key == "":
			errs = append(errs, sorterrors.NewConfigError("scheme", "", errMissingName))
			continue
		case slices.Contains(idcodec.BuiltinNames(), key):
			errs = append(errs, sorterrors.NewConfigError(field, def.Name, errors.New("name is reserved by a built-in scheme")))
			continue
		case custom[key] != nil:
			errs = append(errs, sorterrors.NewConfigError(field, def.Name, errors.New("defined more than once")))
			continue
		}

		s, err := v.buildScheme(key, def)
		if err != nil {
			errs = append(errs, sorterrors.NewConfigError(field, "", err))
			continue
		}
		custom[key] = s
	}
	return custom, sorterrors.NewMultiError(errs).ErrOrNil()
}

func (v *Validator) buildScheme(name string, def SchemeDef) (*idcodec.Scheme, error) {
	alias, err := encoding.ParseAliasPolicy(def.Alias)
	if err != nil {
		return nil, err
	}

	layout := idcodec.Layout{
		Name:       name,
		Width:      def.Width,
		Separators: def.Separators,
		Alias:      alias,
	}
	switch len(def.Separator) {
	case 0:
	case 1:
		layout.Separator = def.Separator[0]
	default:
		return nil, fmt.Errorf("separator must be a single byte, got %q", def.Separator)
	}

	cfg := idcodec.SchemeConfig{
		Layout:     layout,
		RandomBits: def.RandomBits,
		TickShift:  def.TickShift,
	}
	if def.Epoch != "" {
		epoch, err := time.Parse(time.RFC3339, def.Epoch)
		if err != nil {
			return nil, fmt.Errorf("epoch: %w", err)
		}
		cfg.Epoch = epoch.UTC()
	}
	return idcodec.NewScheme(cfg)
}

func (v *Validator) validateGenerate(cfg *Config) error {
	gen := &cfg.Generate
	if gen.Count < 1 {
		return sorterrors.NewConfigError("generate.count", fmt.Sprint(gen.Count), errors.New("must be at least 1"))
	}
	if !slices.Contains(Formats, gen.Format) {
		return unknownValueError("generate.format", gen.Format, Formats)
	}
	if _, err := cfg.Scheme(gen.Scheme); err != nil {
		return unknownSchemeError("generate.scheme", gen.Scheme, cfg.SchemeNames())
	}
	return nil
}

func (v *Validator) validateVerify(verify *Verify) error {
	if verify.Samples < 0 {
		return sorterrors.NewConfigError("verify.samples", fmt.Sprint(verify.Samples), errNegative)
	}
	if verify.Workers < 0 {
		return sorterrors.NewConfigError("verify.workers", fmt.Sprint(verify.Workers), errNegative)
	}
	return nil
}

func (v *Validator) setDefaults(cfg *Config) {
	if cfg.Generate.Scheme == "" {
		cfg.Generate.Scheme = DefaultScheme
	}
	if cfg.Generate.Format == "" {
		cfg.Generate.Format = DefaultFormat
	}
	cfg.Generate.Format = strings.ToLower(cfg.Generate.Format)

	if cfg.Verify.Workers == 0 {
		cfg.Verify.Workers = max(1, runtime.GOMAXPROCS(0))
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}

// Suggest returns the candidate most similar to input by Jaro-Winkler
// similarity, if any scores at least SuggestThreshold.
func Suggest(input string, candidates []string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}

	best, bestScore := "", float32(0)
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(input, strings.ToLower(c), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= SuggestThreshold
}

func unknownSchemeError(field, name string, known []string) error {
	err := fmt.Errorf("%w (known: %s)", ErrUnknown, strings.Join(known, ", "))
	if s, ok := Suggest(name, known); ok {
		err = fmt.Errorf("%w; did you mean %q?", err, s)
	}
	return sorterrors.NewConfigError(field, name, err)
}

func unknownValueError(field, value string, known []string) error {
	err := fmt.Errorf("must be one of %s", strings.Join(known, ", "))
	if s, ok := Suggest(value, known); ok {
		err = fmt.Errorf("%w; did you mean %q?", err, s)
	}
	return sorterrors.NewConfigError(field, value, err)
}
