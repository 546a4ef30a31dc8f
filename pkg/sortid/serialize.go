package sortid

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/standardbeagle/sortid/internal/encoding"
)

// ErrInvalidBinLen is returned when a binary form has the wrong size.
var ErrInvalidBinLen = errors.New("sortid: invalid binary length")

// MarshalText implements encoding.TextMarshaler. JSON and other
// human-readable encoders use this form.
func (id ID) MarshalText() ([]byte, error) {
	return compact.Codec().AppendEncode(make([]byte, 0, Len), id.u128()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := compact.Codec().DecodeBytes(text)
	if err != nil {
		return err
	}
	*id = ID(v.Lo)
	return nil
}

// MarshalBinary returns the 8-byte big-endian form.
func (id ID) MarshalBinary() ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), uint64(id)), nil
}

// UnmarshalBinary reads the 8-byte big-endian form.
func (id *ID) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("%w: need 8 bytes, got %d", ErrInvalidBinLen, len(data))
	}
	*id = ID(binary.BigEndian.Uint64(data))
	return nil
}

// MarshalCBOR encodes id as a CBOR unsigned integer.
func (id ID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(uint64(id))
}

// UnmarshalCBOR decodes a CBOR unsigned integer.
func (id *ID) UnmarshalCBOR(data []byte) error {
	var v uint64
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("sortid: decode cbor ID: %w", err)
	}
	*id = ID(v)
	return nil
}

// Value implements driver.Valuer, storing the text form so that TEXT
// columns sort in identifier order.
func (id ID) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan implements sql.Scanner. It accepts text, bytes and integers.
func (id *ID) Scan(value interface{}) error {
	switch val := value.(type) {
	case string:
		return id.UnmarshalText([]byte(val))
	case []byte:
		return id.UnmarshalText(val)
	case int64:
		*id = ID(uint64(val))
		return nil
	case nil:
		*id = 0
		return nil
	default:
		return fmt.Errorf("sortid: unsupported type: %T, value: %#v", value, value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Long) MarshalText() ([]byte, error) {
	return grouped.Codec().AppendEncode(make([]byte, 0, LongLen), l.u128()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Long) UnmarshalText(text []byte) error {
	v, err := grouped.Codec().DecodeBytes(text)
	if err != nil {
		return err
	}
	*l = longOf(v)
	return nil
}

// longBytes is the binary size implied by the grouped layout width.
var longBytes = encoding.ByteLen(grouped.Width())

// MarshalBinary returns the 13-byte big-endian form.
func (l Long) MarshalBinary() ([]byte, error) {
	return l.u128().AppendBytes(make([]byte, 0, longBytes), longBytes), nil
}

// UnmarshalBinary reads the 13-byte big-endian form. Bits above 100 are
// dropped.
func (l *Long) UnmarshalBinary(data []byte) error {
	if len(data) != longBytes {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidBinLen, longBytes, len(data))
	}
	v, err := encoding.FromBytes(data)
	if err != nil {
		return err
	}
	*l = longOf(v)
	return nil
}

// MarshalCBOR encodes l as a CBOR unsigned integer when it fits in 64 bits
// and as an unsigned bignum (tag 2) otherwise.
func (l Long) MarshalCBOR() ([]byte, error) {
	if l.hi == 0 {
		return cbor.Marshal(l.lo)
	}
	return cbor.Marshal(l.Big())
}

// UnmarshalCBOR accepts a CBOR unsigned integer or unsigned bignum.
func (l *Long) UnmarshalCBOR(data []byte) error {
	var b big.Int
	if err := cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("sortid: decode cbor Long: %w", err)
	}
	v, err := LongFromBig(&b)
	if err != nil {
		return fmt.Errorf("sortid: decode cbor Long: %w", err)
	}
	*l = v
	return nil
}

// Value implements driver.Valuer using the text form.
func (l Long) Value() (driver.Value, error) {
	return l.String(), nil
}

// Scan implements sql.Scanner. It accepts text and bytes; there is no
// integer form because 100 bits do not fit a SQL INTEGER.
func (l *Long) Scan(value interface{}) error {
	switch val := value.(type) {
	case string:
		return l.UnmarshalText([]byte(val))
	case []byte:
		return l.UnmarshalText(val)
	case nil:
		*l = Long{}
		return nil
	default:
		return fmt.Errorf("sortid: unsupported type: %T, value: %#v", value, value)
	}
}
