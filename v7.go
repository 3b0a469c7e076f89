package uuid

import (
	"encoding/binary"
	"io"
	"time"
)

// NewV7 generates a time-sorted (version 7) UUID with the current timestamp.
// This method is thread-safe and ensures monotonic ordering of UUIDs
// generated within the same millisecond.
func (g *Generator) NewV7() (UUID, error) {
	return g.NewV7WithTime(time.Now())
}

// NewV7WithTime generates a time-sorted (version 7) UUID with the specified
// timestamp. This method is thread-safe and ensures monotonic ordering.
func (g *Generator) NewV7WithTime(t time.Time) (UUID, error) {
	var uuid UUID

	// Get Unix timestamp in milliseconds (48 bits)
	timestamp := uint64(t.UnixMilli())

	g.mu.Lock()
	defer g.mu.Unlock()

	// Handle monotonicity: if timestamp is same or earlier, increment counter
	if timestamp <= g.lastTimestamp {
		g.clockSeq++
		// If counter overflows (> 12 bits), we need to wait or use last timestamp + 1
		if g.clockSeq > 0xFFF {
			g.clockSeq = 0
			timestamp = g.lastTimestamp + 1
			g.lastTimestamp = timestamp
		}
	} else {
		/*
		 *The 12-bit rand_a field and the 62-bit rand_b field SHOULD be filled with
		 *random data, such as from a cryptographically secure random number generator.
		 */
		// New millisecond, generate new random clock sequence
		var randBytes [2]byte
		if _, err := io.ReadFull(g.randReader, randBytes[:]); err != nil {
			return uuid, err
		}
		g.clockSeq = binary.BigEndian.Uint16(randBytes[:]) & 0xFFF // 12 bits
		g.lastTimestamp = timestamp
	}

	// Encode timestamp (48 bits) - bytes 0-5
	binary.BigEndian.PutUint64(uuid[0:8], timestamp<<16)

	// Encode version (4 bits) and clock_seq_hi (12 bits) - bytes 6-7
	// Version 7 = 0111
	uuid[6] = byte(0x70 | (g.clockSeq >> 8)) // version (4 bits) + clock_seq_hi (4 bits)
	uuid[7] = byte(g.clockSeq)               // clock_seq_lo (8 bits)

	// Generate random data for bytes 8-15 (64 bits)
	if _, err := io.ReadFull(g.randReader, uuid[8:]); err != nil {
		return uuid, err
	}

	// Set variant to RFC 4122 (10xx xxxx)
	uuid[8] = (uuid[8] & 0x3F) | 0x80

	return uuid, nil
}

// unixMilli extracts the 48-bit Unix millisecond timestamp of a version 7
// UUID from bytes 0-5. Callers must have checked the version.
func (u UUID) unixMilli() int64 {
	timestamp := uint64(u[0])<<40 |
		uint64(u[1])<<32 |
		uint64(u[2])<<24 |
		uint64(u[3])<<16 |
		uint64(u[4])<<8 |
		uint64(u[5])
	return int64(timestamp)
}
