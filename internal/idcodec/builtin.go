package idcodec

import (
	"sort"
	"strings"
)

// Built-in schemes.
//
// Compact keeps 36 random bits under a millisecond time field, so its 28-bit
// time field wraps every 2^28 ms (about 3.1 days). Grouped counts 1/16 ms
// ticks in 52 bits, which lasts roughly 8900 years from the epoch.
var (
	Compact = MustScheme(SchemeConfig{Layout: CompactLayout, RandomBits: 36})
	Grouped = MustScheme(SchemeConfig{Layout: GroupedLayout, RandomBits: 48, TickShift: 4})
	Dashed  = MustScheme(SchemeConfig{Layout: DashedLayout, RandomBits: 36})
)

var builtins = map[string]*Scheme{
	Compact.Name(): Compact,
	Grouped.Name(): Grouped,
	Dashed.Name():  Dashed,
}

// Lookup finds a built-in scheme by case-insensitive name.
func Lookup(name string) (*Scheme, bool) {
	s, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Builtin returns the built-in schemes sorted by name.
func Builtin() []*Scheme {
	out := make([]*Scheme, 0, len(builtins))
	for _, s := range builtins {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// BuiltinNames returns the names of the built-in schemes, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for _, s := range Builtin() {
		names = append(names, s.Name())
	}
	return names
}
