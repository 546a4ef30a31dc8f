// Package selfcheck verifies a codec end to end: every boundary value and a
// seeded stream of random values must round-trip through the text form,
// keep the exact length, and sort the same way as text and as integers.
//
// Random samples are split into fixed-size chunks, each with its own PCG
// stream derived from the seed and the chunk index, so the digest depends on
// the seed and sample count only, never on the worker count.
package selfcheck

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sortid/internal/debug"
	"github.com/standardbeagle/sortid/internal/encoding"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

// ChunkSize is the number of random samples drawn from one PCG stream.
const ChunkSize = 4096

var ErrMismatch = errors.New("round-trip mismatch")

// Codec is the part of *idcodec.Codec the check exercises.
type Codec interface {
	Layout() idcodec.Layout
	Width() uint
	Len() int
	Encode(v encoding.Uint128) string
	Decode(s string) (encoding.Uint128, error)
}

type Options struct {
	Samples int
	Workers int
	Seed    uint64
}

// Report summarizes a successful run.
type Report struct {
	Layout   string
	Boundary int
	Samples  int
	Digest   uint64
	Elapsed  time.Duration
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d boundary + %d random values ok, digest %016x (%s)",
		r.Layout, r.Boundary, r.Samples, r.Digest, r.Elapsed.Round(time.Millisecond))
}

// MismatchError describes the first value that failed a check.
type MismatchError struct {
	Value  encoding.Uint128
	Text   string
	Reason string
	Err    error
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s: %s -> %q: %s", ErrMismatch, e.Value, e.Text, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMismatch}
	}
	return []error{ErrMismatch, e.Err}
}

// Run checks c. Workers defaults to GOMAXPROCS; Samples may be zero to
// check boundary values only.
func Run(ctx context.Context, c Codec, opts Options) (*Report, error) {
	if opts.Samples < 0 {
		return nil, fmt.Errorf("samples must be non-negative, got %d", opts.Samples)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	ck := checker{c: c, mask: encoding.LowMask(c.Width()), lenient: c.Layout().Alias == encoding.AliasLenient}

	boundary := Boundary(c.Width())
	digest, err := ck.checkAll(boundary)
	if err != nil {
		return nil, err
	}
	debug.LogVerify("%s: %d boundary values ok\n", c.Layout(), len(boundary))

	chunks := (opts.Samples + ChunkSize - 1) / ChunkSize
	parts := make([]uint64, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < chunks; i++ {
		n := min(ChunkSize, opts.Samples-i*ChunkSize)
		g.Go(func() error {
			sum, err := ck.checkChunk(ctx, opts.Seed, uint64(i), n)
			parts[i] = sum
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range parts {
		digest += p
	}
	report := &Report{
		Layout:   c.Layout().String(),
		Boundary: len(boundary),
		Samples:  opts.Samples,
		Digest:   digest,
		Elapsed:  time.Since(start),
	}
	debug.LogVerify("%s\n", report)
	return report, nil
}

// Boundary returns zero, the all-ones value, every single-bit value and
// the complement of each, for the given width.
func Boundary(width uint) []encoding.Uint128 {
	mask := encoding.LowMask(width)
	out := make([]encoding.Uint128, 0, 2+2*width)
	out = append(out, encoding.Uint128{}, mask)
	for k := uint(0); k < width; k++ {
		bit := encoding.FromUint64(1).Lsh(k)
		out = append(out, bit, encoding.Uint128{Hi: mask.Hi &^ bit.Hi, Lo: mask.Lo &^ bit.Lo})
	}
	return out
}

type checker struct {
	c       Codec
	mask    encoding.Uint128
	lenient bool
}

func (ck checker) checkAll(values []encoding.Uint128) (uint64, error) {
	var sum uint64
	prev, prevText := encoding.Uint128{}, ""
	for i, v := range values {
		text, err := ck.check(v)
		if err != nil {
			return 0, err
		}
		if i > 0 {
			if err := ck.checkOrder(prev, prevText, v, text); err != nil {
				return 0, err
			}
		}
		sum += xxhash.Sum64String(text)
		prev, prevText = v, text
	}
	return sum, nil
}

func (ck checker) checkChunk(ctx context.Context, seed, chunk uint64, n int) (uint64, error) {
	rng := rand.New(rand.NewPCG(seed, chunk))
	width := ck.c.Width()

	var sum uint64
	prev, prevText := encoding.Uint128{}, ""
	for i := 0; i < n; i++ {
		if i&255 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		// Spread magnitudes so short values are as likely as long ones.
		v := encoding.Uint128{Hi: rng.Uint64(), Lo: rng.Uint64()}.Rsh(rng.UintN(width + 1))
		v = v.And(ck.mask)

		text, err := ck.check(v)
		if err != nil {
			return 0, err
		}
		if i > 0 {
			if err := ck.checkOrder(prev, prevText, v, text); err != nil {
				return 0, err
			}
		}
		sum += xxhash.Sum64String(text)
		prev, prevText = v, text
	}
	return sum, nil
}

func (ck checker) check(v encoding.Uint128) (string, error) {
	text := ck.c.Encode(v)
	if len(text) != ck.c.Len() {
		return text, &MismatchError{Value: v, Text: text,
			Reason: fmt.Sprintf("length %d, want %d", len(text), ck.c.Len())}
	}
	got, err := ck.c.Decode(text)
	if err != nil {
		return text, &MismatchError{Value: v, Text: text, Reason: "decode failed", Err: err}
	}
	if got != v {
		return text, &MismatchError{Value: v, Text: text, Reason: "decoded " + got.String()}
	}
	if wide := ck.c.Encode(v.Or(ck.mask.Lsh(ck.c.Width()))); wide != text {
		return text, &MismatchError{Value: v, Text: wide, Reason: "bits above width changed the text"}
	}
	if ck.lenient {
		upper := strings.ToUpper(text)
		got, err := ck.c.Decode(upper)
		if err != nil || got != v {
			return text, &MismatchError{Value: v, Text: upper, Reason: "uppercase alias did not decode", Err: err}
		}
	}
	return text, nil
}

func (ck checker) checkOrder(a encoding.Uint128, at string, b encoding.Uint128, bt string) error {
	if a.Cmp(b) != strings.Compare(at, bt) {
		return &MismatchError{Value: b, Text: bt,
			Reason: fmt.Sprintf("orders differently from %s (%q) as text", a, at)}
	}
	return nil
}
