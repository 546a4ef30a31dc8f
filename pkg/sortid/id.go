package sortid

import (
	"cmp"
	"time"

	"github.com/standardbeagle/sortid/internal/encoding"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

// Re-export errors for use with errors.Is
var (
	ErrInvalidStrLen = sorterrors.ErrInvalidStrLen
	ErrInvalidDigit  = sorterrors.ErrInvalidDigit
)

// ID is a 64-bit identifier: 28 bits of milliseconds since the epoch
// followed by 36 random bits.
type ID uint64

// Len is the length of the text form of an ID.
const Len = 13

var (
	compact = idcodec.Compact
	dashed  = idcodec.Dashed
)

// New returns an ID for the current time.
func New() ID {
	return ID(compact.New().Lo)
}

// NewAt returns an ID for t. It panics if t is before the epoch.
func NewAt(t time.Time) ID {
	return ID(compact.NewAt(t).Lo)
}

// Parse decodes the 13-character text form.
// Errors match ErrInvalidStrLen or ErrInvalidDigit.
func Parse(s string) (ID, error) {
	v, err := compact.Decode(s)
	if err != nil {
		return 0, err
	}
	return ID(v.Lo), nil
}

// MustParse is like Parse but panics if s is not a valid ID.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic("sortid: MustParse(" + s + "): " + err.Error())
	}
	return id
}

// ParseDashed decodes the 14-character xxxxxx-xxxxxxx form produced by
// Dashed.
func ParseDashed(s string) (ID, error) {
	v, err := dashed.Decode(s)
	if err != nil {
		return 0, err
	}
	return ID(v.Lo), nil
}

// IsValid reports whether s is a valid ID text.
func IsValid(s string) bool {
	return compact.Codec().IsValid(s)
}

func (id ID) u128() encoding.Uint128 { return encoding.FromUint64(uint64(id)) }

// String returns the canonical 13-character lowercase form.
func (id ID) String() string {
	return compact.Encode(id.u128())
}

// Dashed returns the 14-character form with a separator after the sixth
// symbol.
func (id ID) Dashed() string {
	return dashed.Encode(id.u128())
}

func (id ID) Uint64() uint64 { return uint64(id) }

func (id ID) IsZero() bool { return id == 0 }

// Compare returns -1, 0 or +1. It agrees with comparing the String forms.
func (id ID) Compare(other ID) int {
	return cmp.Compare(id, other)
}

// Ticks returns the time field, in milliseconds since the epoch modulo 2^28.
func (id ID) Ticks() uint64 {
	ticks, _ := compact.Split(id.u128())
	return ticks
}

// Random returns the 36 random bits.
func (id ID) Random() uint64 {
	_, r := compact.Split(id.u128())
	return r.Lo
}

// Time returns the instant stored in the time field. Because the field
// wraps, this is only meaningful within about three days of creation.
func (id ID) Time() time.Time {
	return compact.Time(id.u128())
}
