package encoding

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
)

// MaxWidth is the widest value a Uint128 can carry.
const MaxWidth = 128

// Uint128 is an unsigned 128-bit integer held as two 64-bit halves.
// The zero value is 0. Values are compared with ==.
type Uint128 struct {
	Hi, Lo uint64
}

// FromUint64 widens x to 128 bits.
func FromUint64(x uint64) Uint128 {
	return Uint128{Lo: x}
}

// LowMask returns a value with the low width bits set.
// Widths of MaxWidth or more yield all ones.
func LowMask(width uint) Uint128 {
	switch {
	case width == 0:
		return Uint128{}
	case width < 64:
		return Uint128{Lo: 1<<width - 1}
	case width < MaxWidth:
		return Uint128{Hi: 1<<(width-64) - 1, Lo: ^uint64(0)}
	default:
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
}

// Truncate keeps only the low width bits of u.
func (u Uint128) Truncate(width uint) Uint128 {
	return u.And(LowMask(width))
}

func (u Uint128) And(v Uint128) Uint128 { return Uint128{u.Hi & v.Hi, u.Lo & v.Lo} }

func (u Uint128) Or(v Uint128) Uint128 { return Uint128{u.Hi | v.Hi, u.Lo | v.Lo} }

// Lsh shifts left by n bits; bits shifted past bit 127 are discarded.
func (u Uint128) Lsh(n uint) Uint128 {
	switch {
	case n == 0:
		return u
	case n >= MaxWidth:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: u.Lo << (n - 64)}
	default:
		return Uint128{Hi: u.Hi<<n | u.Lo>>(64-n), Lo: u.Lo << n}
	}
}

// Rsh shifts right by n bits.
func (u Uint128) Rsh(n uint) Uint128 {
	switch {
	case n == 0:
		return u
	case n >= MaxWidth:
		return Uint128{}
	case n >= 64:
		return Uint128{Lo: u.Hi >> (n - 64)}
	default:
		return Uint128{Hi: u.Hi >> n, Lo: u.Lo>>n | u.Hi<<(64-n)}
	}
}

// Cmp returns -1, 0 or 1 as u is less than, equal to, or greater than v.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	default:
		return 0
	}
}

func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// BitLen returns the number of bits needed to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// Digit extracts the five-bit group starting at bit shift.
func (u Uint128) Digit(shift uint) byte {
	return byte(u.Rsh(shift).Lo & (Base32 - 1))
}

// Big returns u as a new big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

// FromBig converts a non-negative big.Int, keeping only its low 128 bits.
func FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 {
		return Uint128{}, fmt.Errorf("negative value %s", b)
	}
	var buf [16]byte
	words := new(big.Int).And(b, LowMask(MaxWidth).Big()).FillBytes(buf[:])
	return Uint128{
		Hi: binary.BigEndian.Uint64(words[:8]),
		Lo: binary.BigEndian.Uint64(words[8:]),
	}, nil
}

// ByteLen returns the number of bytes needed to store width bits.
func ByteLen(width uint) int {
	return int((width + 7) / 8)
}

// AppendBytes appends the low n bytes of u to dst in big-endian order.
func (u Uint128) AppendBytes(dst []byte, n int) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], u.Hi)
	binary.BigEndian.PutUint64(buf[8:], u.Lo)
	return append(dst, buf[16-n:]...)
}

// FromBytes reads a big-endian value of at most 16 bytes.
func FromBytes(b []byte) (Uint128, error) {
	if len(b) > 16 {
		return Uint128{}, fmt.Errorf("need at most 16 bytes, got %d", len(b))
	}
	var buf [16]byte
	copy(buf[16-len(b):], b)
	return Uint128{
		Hi: binary.BigEndian.Uint64(buf[:8]),
		Lo: binary.BigEndian.Uint64(buf[8:]),
	}, nil
}

// String formats u as 0x-prefixed lowercase hex without leading zeros.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%#x", u.Lo)
	}
	return fmt.Sprintf("%#x%016x", u.Hi, u.Lo)
}
