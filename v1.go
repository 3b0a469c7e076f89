package uuid

import (
	"encoding/binary"
	"io"
	"time"
)

// epochStart is the difference, in 100-nanosecond intervals, between the
// UUID epoch (October 15, 1582) and the Unix epoch (January 1, 1970).
const epochStart = 122192928000000000

// NewV1 generates a time-based (version 1) UUID with the current wall-clock
// time. This method is thread-safe.
func (g *Generator) NewV1() (UUID, error) {
	return g.NewV1WithTime(time.Now())
}

// NewV1WithTime generates a time-based (version 1) UUID with the specified
// timestamp, at millisecond resolution.
//
// The clock sequence is drawn fresh from the random source on every call
// rather than persisted and incremented as RFC 4122 section 4.2 describes,
// and the node identifier is six random bytes rather than a hardware
// address. Randomizing both keeps the generator stateless and avoids
// leaking the machine's MAC address.
func (g *Generator) NewV1WithTime(t time.Time) (UUID, error) {
	var uuid UUID

	// 100-nanosecond intervals since the UUID epoch (60 bits)
	timestamp := uint64(t.UnixMilli())*10000 + epochStart

	// 2 bytes of clock sequence, 6 bytes of node ID
	var randBytes [8]byte
	if _, err := io.ReadFull(g.source(), randBytes[:]); err != nil {
		return uuid, err
	}
	clockSeq := binary.BigEndian.Uint16(randBytes[0:2]) & 0x3FFF // 14 bits

	// Encode time_low (32 bits), time_mid (16 bits), time_hi (12 bits)
	binary.BigEndian.PutUint32(uuid[0:4], uint32(timestamp))
	binary.BigEndian.PutUint16(uuid[4:6], uint16(timestamp>>32))
	binary.BigEndian.PutUint16(uuid[6:8], uint16(timestamp>>48)&0x0FFF|0x1000) // version 1

	// Encode clock sequence with the variant stamped on its top bits
	binary.BigEndian.PutUint16(uuid[8:10], clockSeq|0x8000) // variant 10xx xxxx

	copy(uuid[10:16], randBytes[2:8])

	return uuid, nil
}

// Timestamp returns the 60-bit timestamp of a version 1 UUID, counted in
// 100-nanosecond intervals since the UUID epoch (October 15, 1582).
// It returns ErrInvalidVersion if the UUID is not version 1.
func (u UUID) Timestamp() (int64, error) {
	if u.Version() != VersionTimeBased {
		return 0, ErrInvalidVersion
	}
	timeLow := uint64(binary.BigEndian.Uint32(u[0:4]))
	timeMid := uint64(binary.BigEndian.Uint16(u[4:6]))
	timeHi := uint64(binary.BigEndian.Uint16(u[6:8]) & 0x0FFF)
	return int64(timeHi<<48 | timeMid<<32 | timeLow), nil
}

// ClockSequence returns the 14-bit clock sequence of a version 1 UUID.
// It returns ErrInvalidVersion if the UUID is not version 1.
func (u UUID) ClockSequence() (int, error) {
	if u.Version() != VersionTimeBased {
		return 0, ErrInvalidVersion
	}
	return int(binary.BigEndian.Uint16(u[8:10]) & 0x3FFF), nil
}

// NodeID returns a copy of the 48-bit node identifier of a version 1 UUID.
// It returns ErrInvalidVersion if the UUID is not version 1.
func (u UUID) NodeID() ([]byte, error) {
	if u.Version() != VersionTimeBased {
		return nil, ErrInvalidVersion
	}
	node := make([]byte, 6)
	copy(node, u[10:16])
	return node, nil
}

// Time returns the timestamp embedded in a version 1 or version 7 UUID as a
// time.Time. It returns ErrInvalidVersion for versions that carry no
// timestamp.
func (u UUID) Time() (time.Time, error) {
	switch u.Version() {
	case VersionTimeBased:
		ticks, err := u.Timestamp()
		if err != nil {
			return time.Time{}, err
		}
		unixTicks := ticks - epochStart
		return time.Unix(unixTicks/10000000, unixTicks%10000000*100), nil
	case VersionTimeSorted:
		return time.UnixMilli(u.unixMilli()), nil
	default:
		return time.Time{}, ErrInvalidVersion
	}
}
