package uuid

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// UUID represents a Universally Unique Identifier as defined by RFC 4122 and RFC 9562.
// The UUID is a 128-bit (16 byte) value that is used to uniquely identify information.
// It is stored big-endian: the most significant byte first.
type UUID [16]byte

// Version represents the UUID version
type Version byte

const (
	_ Version = iota
	VersionTimeBased
	VersionDCESecurity
	VersionNameBasedMD5
	VersionRandom
	VersionNameBasedSHA1
	_
	VersionTimeSorted // UUIDv7
	VersionCustom     // UUIDv8
)

// Variant represents the UUID variant. The values follow the RFC 4122
// decision tree over the top bits of byte 8: 0 for NCS backward
// compatibility, 2 for the standard RFC 4122 layout, 6 for Microsoft
// backward compatibility, 7 for the reserved future range.
type Variant byte

const (
	VariantNCS       Variant = 0
	VariantRFC4122   Variant = 2
	VariantMicrosoft Variant = 6
	VariantFuture    Variant = 7
)

// Nil is the nil UUID (all zeros)
var Nil UUID

// FromBits constructs a UUID directly from its two 64-bit halves.
// The caller is trusted to have set version and variant bits if downstream
// code relies on Version or Variant; no validation is performed.
func FromBits(msb, lsb uint64) UUID {
	var uuid UUID
	binary.BigEndian.PutUint64(uuid[0:8], msb)
	binary.BigEndian.PutUint64(uuid[8:16], lsb)
	return uuid
}

// MostSignificantBits returns the most significant 64 bits of the UUID.
func (u UUID) MostSignificantBits() uint64 {
	return binary.BigEndian.Uint64(u[0:8])
}

// LeastSignificantBits returns the least significant 64 bits of the UUID.
func (u UUID) LeastSignificantBits() uint64 {
	return binary.BigEndian.Uint64(u[8:16])
}

// Version returns the version of the UUID
func (u UUID) Version() Version {
	return Version(u[6] >> 4)
}

// Variant returns the variant of the UUID
func (u UUID) Variant() Variant {
	switch {
	case (u[8] & 0x80) == 0x00:
		return VariantNCS
	case (u[8] & 0xc0) == 0x80:
		return VariantRFC4122
	case (u[8] & 0xe0) == 0xc0:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// String returns the canonical string representation of the UUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (lowercase hex)
func (u UUID) String() string {
	var buf [36]byte
	encodeHex(buf[:], u)
	return string(buf[:])
}

// CompactString returns the UUID as 32 lowercase hex characters without hyphens
func (u UUID) CompactString() string {
	return hex.EncodeToString(u[:])
}

// encodeHex encodes UUID to its canonical hex representation
func encodeHex(dst []byte, u UUID) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], u[10:16])
}

// Parse parses a UUID from its string representation.
// It accepts the following formats, ignoring case:
//   - xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (canonical)
//   - xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx (compact, without hyphens)
//   - urn:uuid:xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
//   - {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}
//
// Hyphens are separators only: they are stripped before decoding, so the
// remaining text must be exactly 32 hex characters.
func Parse(s string) (UUID, error) {
	var uuid UUID

	// Remove common prefixes and suffixes
	s = strings.TrimPrefix(s, "urn:uuid:")
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 32 {
		return uuid, ErrInvalidFormat
	}
	if _, err := hex.Decode(uuid[:], []byte(s)); err != nil {
		return uuid, ErrInvalidFormat
	}
	return uuid, nil
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) UUID {
	uuid, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("uuid: Parse(%q): %v", s, err))
	}
	return uuid
}

// IsValid reports whether s parses as a UUID in either the canonical
// hyphenated or the compact 32-character form, ignoring case.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Bytes returns the UUID as a byte slice
func (u UUID) Bytes() []byte {
	return u[:]
}

// IsNil returns true if the UUID is the nil UUID (all zeros)
func (u UUID) IsNil() bool {
	return u == Nil
}

// MarshalText implements the encoding.TextMarshaler interface
func (u UUID) MarshalText() ([]byte, error) {
	var buf [36]byte
	encodeHex(buf[:], u)
	return buf[:], nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (u UUID) MarshalBinary() ([]byte, error) {
	return u[:], nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (u *UUID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return ErrInvalidLength
	}
	copy(u[:], data)
	return nil
}

// Scan implements the sql.Scanner interface for database compatibility
func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		id, err := Parse(src)
		if err != nil {
			return err
		}
		*u = id
		return nil
	case []byte:
		if len(src) == 16 {
			copy(u[:], src)
			return nil
		}
		if len(src) == 0 {
			return nil
		}
		id, err := Parse(string(src))
		if err != nil {
			return err
		}
		*u = id
		return nil
	default:
		return fmt.Errorf("uuid: cannot scan type %T into UUID", src)
	}
}

// Value implements the driver.Valuer interface for database compatibility
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Compare returns an integer comparing two UUIDs lexicographically, most
// significant byte first: the ordering is the same as comparing the most
// significant 64-bit halves as unsigned integers and then, on a tie, the
// least significant halves.
// The result will be 0 if u==other, -1 if u < other, and +1 if u > other.
func (u UUID) Compare(other UUID) int {
	for i := 0; i < 16; i++ {
		if u[i] < other[i] {
			return -1
		}
		if u[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Equal returns true if u and other represent the same UUID
func (u UUID) Equal(other UUID) bool {
	return u == other
}
