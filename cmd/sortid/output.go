package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/sortid/internal/encoding"
	"github.com/standardbeagle/sortid/internal/idcodec"
)

// idReport is the structured form of one identifier.
type idReport struct {
	Scheme string `json:"scheme" yaml:"scheme"`
	Text   string `json:"id" yaml:"id"`
	Value  string `json:"value" yaml:"value"`
	Ticks  uint64 `json:"ticks" yaml:"ticks"`
	Random string `json:"random" yaml:"random"`
	Time   string `json:"time" yaml:"time"`
}

func reportFor(s *idcodec.Scheme, v encoding.Uint128) idReport {
	ticks, random := s.Split(v)
	return idReport{
		Scheme: s.Name(),
		Text:   s.Encode(v),
		Value:  v.String(),
		Ticks:  ticks,
		Random: random.String(),
		Time:   s.Time(v).Format(time.RFC3339Nano),
	}
}

func reportsFor(s *idcodec.Scheme, values []encoding.Uint128) []idReport {
	out := make([]idReport, len(values))
	for i, v := range values {
		out[i] = reportFor(s, v)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// table returns an aligned writer. Call Flush when done.
func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeReportTable(w io.Writer, reports []idReport) error {
	if len(reports) == 0 {
		return nil
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tVALUE\tTICKS\tRANDOM\tTIME")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Text, r.Value, r.Ticks, r.Random, r.Time)
	}
	return tw.Flush()
}
