// Package encoding provides low-level encoding utilities with no dependencies.
// This is the foundational package for identifier encoding used throughout sortid.
//
// Base-32 Alphabet: 0-9 (0-9), a-h (10-17), j k (18-19), m n (20-21), p-t (22-26), v-z (27-31)
// The letters i, l, o and u are never emitted.
package encoding

import (
	"errors"
	"fmt"
	"strings"
)

// Base-32 encoding constants
const (
	Base32     = 32
	Alphabet32 = "0123456789abcdefghjkmnpqrstvwxyz"

	// BitsPerDigit is the number of value bits carried by one symbol.
	BitsPerDigit = 5
)

// Common errors for encoding operations
var (
	ErrInvalidChar   = errors.New("invalid character in encoded string")
	ErrInvalidPolicy = errors.New("unknown alias policy")
)

// AliasPolicy selects which non-canonical bytes a decoder accepts.
type AliasPolicy uint8

const (
	// AliasStrict accepts only the 32 canonical lowercase bytes.
	AliasStrict AliasPolicy = iota
	// AliasLenient also accepts uppercase letters, and the look-alikes
	// i/I/l/L for 1 and o/O for 0 (Crockford style).
	AliasLenient
)

func (p AliasPolicy) String() string {
	switch p {
	case AliasStrict:
		return "strict"
	case AliasLenient:
		return "lenient"
	default:
		return fmt.Sprintf("AliasPolicy(%d)", uint8(p))
	}
}

// ParseAliasPolicy converts a configuration string into an AliasPolicy.
func ParseAliasPolicy(s string) (AliasPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return AliasStrict, nil
	case "lenient", "crockford", "crockford-lenient":
		return AliasLenient, nil
	default:
		return AliasStrict, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// digitTable maps a byte to its digit value, or -1.
type digitTable [256]int8

var (
	strictDigits  = buildDigitTable(AliasStrict)
	lenientDigits = buildDigitTable(AliasLenient)
)

func buildDigitTable(policy AliasPolicy) *digitTable {
	var t digitTable
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet32); i++ {
		t[Alphabet32[i]] = int8(i)
	}
	if policy == AliasLenient {
		for i := 0; i < len(Alphabet32); i++ {
			c := Alphabet32[i]
			if c >= 'a' && c <= 'z' {
				t[c-'a'+'A'] = int8(i)
			}
		}
		t['i'], t['I'], t['l'], t['L'] = 1, 1, 1, 1
		t['o'], t['O'] = 0, 0
	}
	return &t
}

func tableFor(policy AliasPolicy) *digitTable {
	if policy == AliasLenient {
		return lenientDigits
	}
	return strictDigits
}

// Base32ValueToChar converts a digit value to its canonical character.
// Only the low five bits of val are used, so every input has an answer.
func Base32ValueToChar(val byte) byte {
	return Alphabet32[val&(Base32-1)]
}

// Base32Lookup returns the digit value (0-31) of c under policy, and false
// if c is not accepted.
func Base32Lookup(c byte, policy AliasPolicy) (byte, bool) {
	v := tableFor(policy)[c]
	return byte(v), v >= 0
}
