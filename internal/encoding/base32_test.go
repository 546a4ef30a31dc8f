package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase32ValueToChar(t *testing.T) {
	tests := []struct {
		value    byte
		expected byte
	}{
		{0, '0'},
		{9, '9'},
		{10, 'a'},
		{17, 'h'},
		{18, 'j'},
		{19, 'k'},
		{20, 'm'},
		{21, 'n'},
		{22, 'p'},
		{26, 't'},
		{27, 'v'},
		{31, 'z'},
	}

	for _, tc := range tests {
		t.Run(string(tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, Base32ValueToChar(tc.value))
		})
	}
}

func TestBase32ValueToChar_MasksHighBits(t *testing.T) {
	assert.Equal(t, byte('0'), Base32ValueToChar(32))
	assert.Equal(t, byte('z'), Base32ValueToChar(0xFF))
}

func TestBase32_AlphabetIsBijective(t *testing.T) {
	for _, policy := range []AliasPolicy{AliasStrict, AliasLenient} {
		for v := byte(0); v < Base32; v++ {
			c := Base32ValueToChar(v)
			got, ok := Base32Lookup(c, policy)
			require.True(t, ok)
			assert.Equal(t, v, got, "policy %s char %q", policy, c)
		}
	}
}

func TestBase32_AlphabetSkipsAmbiguousLetters(t *testing.T) {
	for _, c := range "ilou" {
		assert.False(t, strings.ContainsRune(Alphabet32, c), "alphabet must not contain %q", c)
	}
	assert.Len(t, Alphabet32, Base32)
}

func TestBase32Lookup_Strict(t *testing.T) {
	invalid := []byte{'A', 'Z', 'i', 'I', 'l', 'L', 'o', 'O', 'u', 'U', '-', ' ', '!', 0, 0x80, 0xFF}
	for _, c := range invalid {
		_, ok := Base32Lookup(c, AliasStrict)
		assert.False(t, ok, "byte %q", c)
	}
}

func TestBase32Lookup_Lenient(t *testing.T) {
	tests := []struct {
		input    byte
		expected byte
	}{
		{'A', 10},
		{'H', 17},
		{'J', 18},
		{'Z', 31},
		{'i', 1},
		{'I', 1},
		{'l', 1},
		{'L', 1},
		{'o', 0},
		{'O', 0},
	}

	for _, tc := range tests {
		t.Run(string(tc.input), func(t *testing.T) {
			got, ok := Base32Lookup(tc.input, AliasLenient)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}

	for _, c := range []byte{'u', 'U', '-', '_', '{'} {
		_, ok := Base32Lookup(c, AliasLenient)
		assert.False(t, ok, "byte %q", c)
	}
}

func TestBase32Lookup(t *testing.T) {
	v, ok := Base32Lookup('z', AliasStrict)
	assert.True(t, ok)
	assert.Equal(t, byte(31), v)

	_, ok = Base32Lookup('Z', AliasStrict)
	assert.False(t, ok)

	v, ok = Base32Lookup('Z', AliasLenient)
	assert.True(t, ok)
	assert.Equal(t, byte(31), v)
}

func TestParseAliasPolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected AliasPolicy
	}{
		{"strict", AliasStrict},
		{"", AliasStrict},
		{"lenient", AliasLenient},
		{"Crockford", AliasLenient},
		{"crockford-lenient", AliasLenient},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAliasPolicy(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := ParseAliasPolicy("loose")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func BenchmarkBase32Lookup(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Base32Lookup(Alphabet32[i%Base32], AliasLenient)
	}
}
