package sortid

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sortid/internal/idcodec"
)

func TestID_String(t *testing.T) {
	tests := []struct {
		id       ID
		expected string
		dashed   string
	}{
		{0, "0000000000000", "000000-0000000"},
		{0xF, "000000000000f", "000000-000000f"},
		{0xF000000000000000, "f000000000000", "f00000-0000000"},
		{0xFFFFFFFFFFFFFFFF, "fzzzzzzzzzzzz", "fzzzzz-zzzzzzz"},
		{0xdeadbeefbeefdead, "dxbdyxyzezqnd", "dxbdyx-yzezqnd"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.id.String())
			assert.Len(t, tc.id.String(), Len)
			assert.Equal(t, tc.dashed, tc.id.Dashed())

			got, err := Parse(tc.expected)
			require.NoError(t, err)
			assert.Equal(t, tc.id, got)

			got, err = ParseDashed(tc.dashed)
			require.NoError(t, err)
			assert.Equal(t, tc.id, got)
		})
	}
}

func TestParse_Aliases(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
	}{
		{"DXBDYXYZEZQND", 0xdeadbeefbeefdead},
		{"DxBdYxYzEzQnD", 0xdeadbeefbeefdead},
		{"000000000000i", 1},
		{"000000000000L", 1},
		{"OOOOOOOOOOOO1", 1},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("000000000000")
	assert.ErrorIs(t, err, ErrInvalidStrLen)
	assert.EqualError(t, err, "decoding error: string must be exactly 13 characters, got 12")

	_, err = Parse("00000000000000")
	assert.ErrorIs(t, err, ErrInvalidStrLen)

	_, err = Parse("0000u00000000")
	assert.ErrorIs(t, err, ErrInvalidDigit)
	assert.EqualError(t, err, "decoding error: invalid digit: 'u' at position 4")

	_, err = ParseDashed("000000_0000000")
	assert.ErrorIs(t, err, ErrInvalidDigit)

	assert.False(t, IsValid("0000000000000 "))
	assert.True(t, IsValid("0000000000000"))
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, ID(0xF), MustParse("000000000000f"))
	assert.Panics(t, func() { MustParse("nope") })
}

func TestID_OversizedLeadingDigitWraps(t *testing.T) {
	// The leading symbol carries only 4 bits; the fifth is dropped.
	got, err := Parse("g000000000000")
	require.NoError(t, err)
	assert.Equal(t, ID(0), got)
}

func TestID_TimeFields(t *testing.T) {
	at := idcodec.Epoch.Add(36 * time.Hour).Add(123 * time.Millisecond)
	id := NewAt(at)

	assert.Equal(t, uint64(36*3600*1000+123), id.Ticks())
	assert.Less(t, id.Random(), uint64(1)<<36)
	assert.Equal(t, at, id.Time())
	assert.Equal(t, id.Ticks()<<36|id.Random(), id.Uint64())
}

func TestNewAt_TimeFieldWraps(t *testing.T) {
	const wrap = 1 << 28 // milliseconds in the 28-bit time field
	period := wrap * time.Millisecond
	assert.Equal(t, 74*time.Hour+33*time.Minute+55*time.Second+456*time.Millisecond, period)

	beforeWrap := idcodec.Epoch.Add(period - time.Millisecond)
	atWrap := idcodec.Epoch.Add(period)
	afterWrap := atWrap.Add(time.Millisecond)

	last, first, next := NewAt(beforeWrap), NewAt(atWrap), NewAt(afterWrap)

	assert.Equal(t, uint64(wrap-1), last.Ticks())
	assert.Equal(t, uint64(0), first.Ticks())
	assert.Equal(t, uint64(1), next.Ticks())

	// Order holds within one period and inverts across the boundary.
	assert.Equal(t, -1, first.Compare(next))
	assert.Equal(t, 1, last.Compare(first), "a later instant sorts first once the field wraps")
	assert.Greater(t, last.String(), first.String())

	// Time reports the instant modulo the period.
	assert.Equal(t, idcodec.Epoch, first.Time())
	assert.Equal(t, beforeWrap, last.Time())

	// Long keeps ordering across the same instants.
	assert.Equal(t, -1, NewLongAt(beforeWrap).Compare(NewLongAt(atWrap)))
}

func TestNew(t *testing.T) {
	const wrap = 1 << 28
	lo := compact.Ticks(time.Now()) % wrap
	id := New()
	hi := compact.Ticks(time.Now()) % wrap
	if hi < lo {
		t.Skip("time field wrapped during test")
	}

	assert.False(t, id.IsZero())
	assert.GreaterOrEqual(t, id.Ticks(), lo)
	assert.LessOrEqual(t, id.Ticks(), hi)
}

func TestID_CompareMatchesText(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ids := make([]ID, 500)
	for i := range ids {
		ids[i] = ID(rng.Uint64() >> rng.UintN(64))
	}

	byValue := slices.Clone(ids)
	slices.SortFunc(byValue, ID.Compare)

	byText := slices.Clone(ids)
	slices.SortFunc(byText, func(a, b ID) int {
		switch as, bs := a.String(), b.String(); {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})

	assert.Equal(t, byValue, byText)
}

func BenchmarkIDString(b *testing.B) {
	id := ID(0xdeadbeefbeefdead)
	for i := 0; i < b.N; i++ {
		_ = id.String()
	}
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Parse("dxbdyxyzezqnd")
	}
}
