// Package sortid provides compact, time-sortable identifiers.
//
// An identifier packs a tick count since 2020-01-01T00:00:00Z into its high
// bits and random bits into the rest, so identifiers created in later ticks
// compare greater both as integers and as text. The text form uses the
// 32-symbol alphabet 0123456789abcdefghjkmnpqrstvwxyz, which is in ascending
// byte order, so byte-wise string comparison agrees with numeric comparison.
//
// Two widths are provided:
//
//	ID    64 bits,  13 characters           e.g. dxbdyxyzezqnd
//	Long  100 bits, 22 characters (6-8-6)   e.g. 000000-0dxbdyxy-zezqnd
//
// ID text accepts Crockford-style aliases on input (uppercase, i/l for 1,
// o for 0). Long text is strict lowercase. Both always encode lowercase.
//
// ID keeps 36 random bits under a millisecond counter, and its 28-bit time
// field wraps about every 3.1 days; use Long when identifiers must sort
// across longer spans.
//
// Both types implement encoding.TextMarshaler (and therefore JSON), binary
// marshaling, CBOR marshaling as native integers, and database/sql
// Scanner/Valuer using the text form.
package sortid
