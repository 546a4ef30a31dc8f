package sortid

import (
	"math/big"
	"time"

	"github.com/standardbeagle/sortid/internal/encoding"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

// Long is a 100-bit identifier: 52 bits of 1/16 ms ticks since the epoch
// followed by 48 random bits. The zero value is the all-zero identifier.
type Long struct {
	hi, lo uint64
}

// LongLen is the length of the text form of a Long.
const LongLen = 22

// LongBytes is the length of the binary form of a Long.
const LongBytes = 13

var grouped = idcodec.Grouped

func longOf(v encoding.Uint128) Long {
	v = grouped.FromRaw(v)
	return Long{hi: v.Hi, lo: v.Lo}
}

func (l Long) u128() encoding.Uint128 { return encoding.Uint128{Hi: l.hi, Lo: l.lo} }

// NewLong returns a Long for the current time.
func NewLong() Long {
	return longOf(grouped.New())
}

// NewLongAt returns a Long for t. It panics if t is before the epoch.
func NewLongAt(t time.Time) Long {
	return longOf(grouped.NewAt(t))
}

// LongFromUint64 returns the Long with value x.
func LongFromUint64(x uint64) Long {
	return Long{lo: x}
}

// LongFromParts returns the Long with value hi<<64 | lo, keeping the low
// 100 bits.
func LongFromParts(hi, lo uint64) Long {
	return longOf(encoding.Uint128{Hi: hi, Lo: lo})
}

// LongFromBig converts a non-negative integer, keeping the low 100 bits.
func LongFromBig(b *big.Int) (Long, error) {
	v, err := encoding.FromBig(b)
	if err != nil {
		return Long{}, err
	}
	return longOf(v), nil
}

// ParseLong decodes the 22-character text form.
// Errors match ErrInvalidStrLen or ErrInvalidDigit.
func ParseLong(s string) (Long, error) {
	v, err := grouped.Decode(s)
	if err != nil {
		return Long{}, err
	}
	return longOf(v), nil
}

// MustParseLong is like ParseLong but panics if s is not a valid Long.
func MustParseLong(s string) Long {
	l, err := ParseLong(s)
	if err != nil {
		panic("sortid: MustParseLong(" + s + "): " + err.Error())
	}
	return l
}

// IsValidLong reports whether s is a valid Long text.
func IsValidLong(s string) bool {
	return grouped.Codec().IsValid(s)
}

// String returns the canonical xxxxxx-xxxxxxxx-xxxxxx form.
func (l Long) String() string {
	return grouped.Encode(l.u128())
}

// Parts returns the high 36 and low 64 bits.
func (l Long) Parts() (hi, lo uint64) { return l.hi, l.lo }

// Big returns the value as a new big.Int.
func (l Long) Big() *big.Int { return l.u128().Big() }

func (l Long) IsZero() bool { return l.hi == 0 && l.lo == 0 }

// Compare returns -1, 0 or +1. It agrees with comparing the String forms.
func (l Long) Compare(other Long) int {
	return l.u128().Cmp(other.u128())
}

// Ticks returns the time field in 1/16 ms units since the epoch.
func (l Long) Ticks() uint64 {
	ticks, _ := grouped.Split(l.u128())
	return ticks
}

// Random returns the 48 random bits.
func (l Long) Random() uint64 {
	_, r := grouped.Split(l.u128())
	return r.Lo
}

// Time returns the instant stored in the time field, at 62.5µs resolution.
func (l Long) Time() time.Time {
	return grouped.Time(l.u128())
}
