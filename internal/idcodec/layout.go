package idcodec

import (
	"errors"
	"fmt"
	"slices"

	"github.com/standardbeagle/sortid/internal/encoding"
)

// DefaultSeparator is the separator byte used when a Layout leaves it unset.
const DefaultSeparator = '-'

// Layout describes the text form of a fixed-width identifier.
//
// Separators are indices into the final output string, so a layout for
// groups of 6-8-6 data characters lists 6 and 15.
type Layout struct {
	Name       string
	Width      uint
	Separators []int
	Separator  byte
	Alias      encoding.AliasPolicy
}

// Built-in layouts.
var (
	// CompactLayout renders 64 bits as 13 characters with no separators.
	CompactLayout = Layout{
		Name:  "compact",
		Width: 64,
		Alias: encoding.AliasLenient,
	}

	// GroupedLayout renders 100 bits as 22 characters: 6-8-6 data groups.
	GroupedLayout = Layout{
		Name:       "grouped",
		Width:      100,
		Separators: []int{6, 15},
		Separator:  DefaultSeparator,
		Alias:      encoding.AliasStrict,
	}

	// DashedLayout renders 64 bits as 14 characters: 6-7 data groups.
	DashedLayout = Layout{
		Name:       "dashed",
		Width:      64,
		Separators: []int{6},
		Separator:  DefaultSeparator,
		Alias:      encoding.AliasLenient,
	}
)

var (
	ErrInvalidWidth     = errors.New("width must be between 1 and 128 bits")
	ErrInvalidSeparator = errors.New("invalid separator")
	ErrMissingSeparator = errors.New("expected separator")
)

// DataLen is the number of symbol characters: ceil(Width/5).
func (l Layout) DataLen() int {
	return int((l.Width + encoding.BitsPerDigit - 1) / encoding.BitsPerDigit)
}

// Len is the full text length including separators.
func (l Layout) Len() int {
	return l.DataLen() + len(l.Separators)
}

// Validate checks that the layout can be encoded and decoded unambiguously.
func (l Layout) Validate() error {
	if l.Width == 0 || l.Width > encoding.MaxWidth {
		return fmt.Errorf("%w: got %d", ErrInvalidWidth, l.Width)
	}
	if len(l.Separators) == 0 {
		return nil
	}
	if _, ok := encoding.Base32Lookup(l.separator(), l.Alias); ok {
		return fmt.Errorf("%w: %q decodes as a digit under %s aliasing", ErrInvalidSeparator, l.separator(), l.Alias)
	}
	// Lenient input is case-insensitive, so a letter separator would not
	// survive upper-casing.
	if sep := l.separator() | 0x20; l.Alias == encoding.AliasLenient && sep >= 'a' && sep <= 'z' {
		return fmt.Errorf("%w: letter %q under lenient aliasing", ErrInvalidSeparator, l.separator())
	}
	if !slices.IsSorted(l.Separators) {
		return fmt.Errorf("%w: positions %v must be ascending", ErrInvalidSeparator, l.Separators)
	}
	length := l.Len()
	for i, pos := range l.Separators {
		if pos <= 0 || pos >= length-1 {
			return fmt.Errorf("%w: position %d outside 1..%d", ErrInvalidSeparator, pos, length-2)
		}
		if i > 0 && l.Separators[i-1] == pos {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidSeparator, pos)
		}
	}
	return nil
}

func (l Layout) separator() byte {
	if l.Separator == 0 {
		return DefaultSeparator
	}
	return l.Separator
}

func (l Layout) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("w%d", l.Width)
}
