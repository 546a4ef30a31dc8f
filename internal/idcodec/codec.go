// Package idcodec provides the fixed-width identifier codec and the
// time+random composition scheme built on internal/encoding.
//
// A Codec renders a W-bit value as ceil(W/5) base-32 symbols, most
// significant group first, with optional separator bytes at fixed output
// positions. The leading symbol holds W mod 5 bits when W is not a multiple
// of five. Decoding checks the exact length, then every byte against the
// digit table of the layout's alias policy.
package idcodec

import (
	"github.com/standardbeagle/sortid/internal/encoding"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
)

// Re-export errors for use with errors.Is
var (
	ErrInvalidStrLen = sorterrors.ErrInvalidStrLen
	ErrInvalidDigit  = sorterrors.ErrInvalidDigit
)

// Codec encodes and decodes one Layout. It is immutable and safe for
// concurrent use.
type Codec struct {
	layout  Layout
	sep     byte
	dataLen int
	isSep   []bool
	mask    encoding.Uint128
}

// NewCodec validates l and precomputes its separator map.
func NewCodec(l Layout) (*Codec, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.Separators = append([]int(nil), l.Separators...)
	c := &Codec{
		layout:  l,
		sep:     l.separator(),
		dataLen: l.DataLen(),
		isSep:   make([]bool, l.Len()),
		mask:    encoding.LowMask(l.Width),
	}
	for _, pos := range l.Separators {
		c.isSep[pos] = true
	}
	return c, nil
}

// MustCodec is like NewCodec but panics on an invalid layout.
// Use it only for layouts known at compile time.
func MustCodec(l Layout) *Codec {
	c, err := NewCodec(l)
	if err != nil {
		panic("idcodec: MustCodec: " + err.Error())
	}
	return c
}

func (c *Codec) Layout() Layout { return c.layout }

func (c *Codec) Width() uint { return c.layout.Width }

// Len returns the exact text length, separators included.
func (c *Codec) Len() int { return len(c.isSep) }

// DataLen returns the number of symbol characters.
func (c *Codec) DataLen() int { return c.dataLen }

// Mask returns the low-Width-bits mask of this codec.
func (c *Codec) Mask() encoding.Uint128 { return c.mask }

// Encode renders v as a Len()-byte string. Bits above Width are ignored.
func (c *Codec) Encode(v encoding.Uint128) string {
	return string(c.AppendEncode(make([]byte, 0, c.Len()), v))
}

// AppendEncode appends the text form of v to dst.
func (c *Codec) AppendEncode(dst []byte, v encoding.Uint128) []byte {
	v = v.And(c.mask)
	shift := (c.dataLen - 1) * encoding.BitsPerDigit
	for i := range c.isSep {
		if c.isSep[i] {
			dst = append(dst, c.sep)
			continue
		}
		dst = append(dst, encoding.Base32ValueToChar(v.Digit(uint(shift))))
		shift -= encoding.BitsPerDigit
	}
	return dst
}

// Decode parses s. The result is reduced modulo 2^Width, so a leading symbol
// wider than the leading group loses its excess bits instead of failing.
func (c *Codec) Decode(s string) (encoding.Uint128, error) {
	return decode(c, s)
}

// DecodeBytes is Decode for byte slices.
func (c *Codec) DecodeBytes(b []byte) (encoding.Uint128, error) {
	return decode(c, b)
}

// IsValid reports whether s decodes without error.
func (c *Codec) IsValid(s string) bool {
	_, err := decode(c, s)
	return err == nil
}

func decode[T string | []byte](c *Codec, s T) (encoding.Uint128, error) {
	if len(s) != len(c.isSep) {
		return encoding.Uint128{}, sorterrors.NewLengthError(string(s), len(c.isSep))
	}
	var v encoding.Uint128
	for i := 0; i < len(s); i++ {
		b := s[i]
		if c.isSep[i] {
			if b != c.sep {
				return encoding.Uint128{}, sorterrors.NewDigitError(string(s), i, ErrMissingSeparator)
			}
			continue
		}
		d, ok := encoding.Base32Lookup(b, c.layout.Alias)
		if !ok {
			return encoding.Uint128{}, sorterrors.NewDigitError(string(s), i, encoding.ErrInvalidChar)
		}
		v = v.Lsh(encoding.BitsPerDigit).Or(encoding.FromUint64(uint64(d)))
	}
	return v.And(c.mask), nil
}
