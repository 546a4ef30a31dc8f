package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sortid/internal/config"
	"github.com/standardbeagle/sortid/internal/debug"
	"github.com/standardbeagle/sortid/internal/encoding"
	"github.com/standardbeagle/sortid/internal/idcodec"
	"github.com/standardbeagle/sortid/internal/selfcheck"
)

// newCommand generates identifiers with the configured scheme
func newCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	scheme, err := cfg.Scheme(cfg.Generate.Scheme)
	if err != nil {
		return err
	}
	debug.LogScheme("generating %d with %s\n", cfg.Generate.Count, scheme.Name())

	values := make([]encoding.Uint128, cfg.Generate.Count)
	for i := range values {
		values[i] = scheme.New()
	}

	w := c.App.Writer
	switch cfg.Generate.Format {
	case config.FormatJSON:
		debug.SetQuietMode(true)
		return writeJSON(w, reportsFor(scheme, values))
	case config.FormatYAML:
		debug.SetQuietMode(true)
		return writeYAML(w, reportsFor(scheme, values))
	case config.FormatHex:
		for _, v := range values {
			fmt.Fprintln(w, v)
		}
	default:
		for _, v := range values {
			fmt.Fprintln(w, scheme.Encode(v))
		}
	}
	return nil
}

// parseCommand decodes each argument and prints its fields. Every argument
// is attempted; the command fails if any did not decode.
func parseCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("parse requires at least one identifier")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	scheme, err := cfg.Scheme(cfg.Generate.Scheme)
	if err != nil {
		return err
	}

	var reports []idReport
	failed := 0
	for _, text := range c.Args().Slice() {
		v, err := scheme.Decode(text)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", text, err)
			failed++
			continue
		}
		debug.LogCodec("%q -> %s\n", text, v)
		reports = append(reports, reportFor(scheme, v))
	}

	w := c.App.Writer
	switch cfg.Generate.Format {
	case config.FormatJSON:
		debug.SetQuietMode(true)
		err = writeJSON(w, reports)
	case config.FormatYAML:
		debug.SetQuietMode(true)
		err = writeYAML(w, reports)
	default:
		err = writeReportTable(w, reports)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d identifiers failed to parse", failed, c.NArg())
	}
	return nil
}

// encodeCommand renders integers as identifier text. Values wider than the
// scheme are masked, matching how identifiers are built.
func encodeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("encode requires at least one integer")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	scheme, err := cfg.Scheme(cfg.Generate.Scheme)
	if err != nil {
		return err
	}

	for _, arg := range c.Args().Slice() {
		v, err := parseInteger(arg)
		if err != nil {
			return err
		}
		if v.BitLen() > int(scheme.Width()) {
			debug.LogCodec("%s exceeds %d bits, masking\n", arg, scheme.Width())
		}
		fmt.Fprintln(c.App.Writer, scheme.Encode(scheme.FromRaw(v)))
	}
	return nil
}

// parseInteger accepts decimal, 0x hex, 0o octal and 0b binary, with
// optional underscores. Values wider than 128 bits keep their low bits.
func parseInteger(s string) (encoding.Uint128, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return encoding.Uint128{}, fmt.Errorf("invalid integer %q", s)
	}
	v, err := encoding.FromBig(b)
	if err != nil {
		return encoding.Uint128{}, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

// verifyCommand runs the self check on one scheme or, with --all, on every
// known scheme.
func verifyCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	var schemes []*idcodec.Scheme
	if c.Bool("all") {
		schemes = append(idcodec.Builtin(), cfg.CustomSchemes()...)
	} else {
		scheme, err := cfg.Scheme(cfg.Generate.Scheme)
		if err != nil {
			return err
		}
		schemes = []*idcodec.Scheme{scheme}
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := selfcheck.Options{
		Samples: cfg.Verify.Samples,
		Workers: cfg.Verify.Workers,
		Seed:    cfg.Verify.Seed,
	}
	for _, scheme := range schemes {
		debug.LogVerify("checking %s with %d samples on %d workers\n", scheme.Name(), opts.Samples, opts.Workers)
		report, err := selfcheck.Run(ctx, scheme.Codec(), opts)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("verify %s: interrupted", scheme.Name())
			}
			return fmt.Errorf("verify %s: %w", scheme.Name(), err)
		}
		fmt.Fprintln(c.App.Writer, report)
	}
	return nil
}

// schemesCommand lists every scheme with its layout and an example
func schemesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	tw := table(c.App.Writer)
	fmt.Fprintln(tw, "NAME\tWIDTH\tTIME\tRANDOM\tTICK\tLEN\tALIAS\tEXAMPLE")
	for _, name := range cfg.SchemeNames() {
		s, err := cfg.Scheme(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\t%s\t%s\n",
			s.Name(), s.Width(), s.TimeBits(), s.RandomBits(), tickLabel(s.TickShift()),
			s.Codec().Len(), s.Codec().Layout().Alias, s.Encode(s.New()))
	}
	return tw.Flush()
}

func tickLabel(shift uint) string {
	if shift == 0 {
		return "1ms"
	}
	return fmt.Sprintf("1/%dms", 1<<shift)
}
