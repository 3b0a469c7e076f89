package uuid

import "io"

// NewV4 generates a random (version 4) UUID as described in RFC 4122
// section 4.4: 16 bytes from the random source with the version and variant
// bits stamped on top, leaving 122 bits of entropy.
func (g *Generator) NewV4() (UUID, error) {
	var uuid UUID

	if _, err := io.ReadFull(g.source(), uuid[:]); err != nil {
		return uuid, err
	}

	// Set version 4 (0100) and variant to RFC 4122 (10xx xxxx)
	uuid[6] = (uuid[6] & 0x0F) | 0x40
	uuid[8] = (uuid[8] & 0x3F) | 0x80

	return uuid, nil
}
