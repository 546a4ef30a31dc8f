package idcodec

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"time"

	"github.com/standardbeagle/sortid/internal/debug"
	"github.com/standardbeagle/sortid/internal/encoding"
)

// Epoch is the reference instant of every built-in scheme.
var Epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// MaxTickShift bounds the sub-millisecond resolution to 2^20 ticks per ms.
const MaxTickShift = 20

var ErrInvalidScheme = errors.New("invalid scheme")

// SchemeConfig describes how an identifier is built.
//
// The time field takes the high Width-RandomBits bits and counts ticks since
// Epoch, where one millisecond is 2^TickShift ticks. Ticks that do not fit
// the time field are truncated silently.
type SchemeConfig struct {
	Layout     Layout
	RandomBits uint
	Epoch      time.Time
	TickShift  uint
}

// Scheme composes and inspects identifiers for one layout.
type Scheme struct {
	codec      *Codec
	randomBits uint
	epochMs    int64
	tickShift  uint
	clock      func() time.Time
	random     func() uint64
}

// NewScheme validates cfg and returns a scheme using time.Now and the
// process-wide math/rand/v2 generator.
func NewScheme(cfg SchemeConfig) (*Scheme, error) {
	codec, err := NewCodec(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidScheme, cfg.Layout, err)
	}
	if cfg.RandomBits > cfg.Layout.Width {
		return nil, fmt.Errorf("%w %s: random bits %d exceed width %d",
			ErrInvalidScheme, cfg.Layout, cfg.RandomBits, cfg.Layout.Width)
	}
	if cfg.TickShift > MaxTickShift {
		return nil, fmt.Errorf("%w %s: tick shift %d exceeds %d",
			ErrInvalidScheme, cfg.Layout, cfg.TickShift, MaxTickShift)
	}
	epoch := cfg.Epoch
	if epoch.IsZero() {
		epoch = Epoch
	}
	s := &Scheme{
		codec:      codec,
		randomBits: cfg.RandomBits,
		epochMs:    epoch.UnixMilli(),
		tickShift:  cfg.TickShift,
		clock:      time.Now,
		random:     rand.Uint64,
	}
	debug.LogScheme("%s: width=%d time=%d random=%d tick=1/%dms len=%d\n",
		codec.Layout(), codec.Width(), s.TimeBits(), s.randomBits, 1<<s.tickShift, codec.Len())
	return s, nil
}

// MustScheme is like NewScheme but panics on an invalid configuration.
func MustScheme(cfg SchemeConfig) *Scheme {
	s, err := NewScheme(cfg)
	if err != nil {
		panic("idcodec: MustScheme: " + err.Error())
	}
	return s
}

// WithClock returns a copy of s that reads time from clock.
func (s *Scheme) WithClock(clock func() time.Time) *Scheme {
	cp := *s
	cp.clock = clock
	return &cp
}

// WithRandom returns a copy of s that draws random bits from random.
// random must be safe for concurrent use if the copy is shared.
func (s *Scheme) WithRandom(random func() uint64) *Scheme {
	cp := *s
	cp.random = random
	return &cp
}

func (s *Scheme) Name() string { return s.codec.Layout().String() }

func (s *Scheme) Codec() *Codec { return s.codec }

func (s *Scheme) Width() uint { return s.codec.Width() }

func (s *Scheme) RandomBits() uint { return s.randomBits }

func (s *Scheme) TimeBits() uint { return s.codec.Width() - s.randomBits }

func (s *Scheme) TickShift() uint { return s.tickShift }

func (s *Scheme) Epoch() time.Time { return time.UnixMilli(s.epochMs).UTC() }

// Ticks returns the ticks elapsed between the epoch and t.
// It panics if t is before the epoch: a clock that far off cannot produce
// ordered identifiers and is treated as a broken environment.
func (s *Scheme) Ticks(t time.Time) uint64 {
	elapsed := t.Sub(time.UnixMilli(s.epochMs))
	if elapsed < 0 {
		panic(fmt.Sprintf("idcodec: clock reports %s, before epoch %s",
			t.UTC().Format(time.RFC3339Nano), s.Epoch().Format(time.RFC3339)))
	}
	hi, lo := bits.Mul64(uint64(elapsed), 1<<s.tickShift)
	ticks, _ := bits.Div64(hi, lo, uint64(time.Millisecond))
	return ticks
}

// Compose packs ticks and random into one value:
// ((ticks << RandomBits) | (random & mask(RandomBits))) & mask(Width).
func (s *Scheme) Compose(ticks uint64, random encoding.Uint128) encoding.Uint128 {
	v := encoding.FromUint64(ticks).Lsh(s.randomBits).Or(random.Truncate(s.randomBits))
	return v.And(s.codec.Mask())
}

// New builds an identifier from the current time and fresh random bits.
func (s *Scheme) New() encoding.Uint128 {
	return s.Compose(s.Ticks(s.clock()), s.draw())
}

// NewAt builds an identifier for t with fresh random bits.
func (s *Scheme) NewAt(t time.Time) encoding.Uint128 {
	return s.Compose(s.Ticks(t), s.draw())
}

func (s *Scheme) draw() encoding.Uint128 {
	r := encoding.Uint128{Lo: s.random()}
	if s.randomBits > 64 {
		r.Hi = s.random()
	}
	return r
}

// FromRaw masks v to the scheme width.
func (s *Scheme) FromRaw(v encoding.Uint128) encoding.Uint128 {
	return v.And(s.codec.Mask())
}

// Split separates v into its time field and random field.
func (s *Scheme) Split(v encoding.Uint128) (ticks uint64, random encoding.Uint128) {
	v = s.FromRaw(v)
	return v.Rsh(s.randomBits).Lo, v.Truncate(s.randomBits)
}

// Time returns the instant stored in the time field of v. When the time
// field has wrapped this is the instant modulo the field's range.
func (s *Scheme) Time(v encoding.Uint128) time.Time {
	ticks, _ := s.Split(v)
	ms := ticks >> s.tickShift
	frac := ticks & (1<<s.tickShift - 1)
	ns := frac * uint64(time.Millisecond) >> s.tickShift
	return time.UnixMilli(s.epochMs + int64(ms)).Add(time.Duration(ns)).UTC()
}

// Encode is shorthand for s.Codec().Encode.
func (s *Scheme) Encode(v encoding.Uint128) string { return s.codec.Encode(v) }

// Decode is shorthand for s.Codec().Decode.
func (s *Scheme) Decode(text string) (encoding.Uint128, error) { return s.codec.Decode(text) }
