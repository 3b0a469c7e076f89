package uuid

import (
	"encoding/binary"
	"math/bits"
)

// sha1Sum computes the SHA-1 digest of data as specified by RFC 3174.
//
// The implementation is self-contained so that name-based UUID generation
// does not depend on any hashing package: the inputs are short
// (16 namespace bytes plus a name), so a straightforward single-shot
// pad-then-compress routine is all that is needed. It is not exported and
// is not a general-purpose hashing facility.
func sha1Sum(data []byte) [20]byte {
	h0 := uint32(0x67452301)
	h1 := uint32(0xEFCDAB89)
	h2 := uint32(0x98BADCFE)
	h3 := uint32(0x10325476)
	h4 := uint32(0xC3D2E1F0)

	// Pad: a single 0x80 byte, zeros until the length is 56 mod 64, then
	// the original length in bits as a big-endian 64-bit integer.
	padded := make([]byte, 0, len(data)+72)
	padded = append(padded, data...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0x00)
	}
	padded = binary.BigEndian.AppendUint64(padded, uint64(len(data))*8)

	var w [80]uint32
	for chunk := 0; chunk < len(padded); chunk += 64 {
		block := padded[chunk : chunk+64]
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(block[i*4 : i*4+4])
		}
		for i := 16; i < 80; i++ {
			w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b, c, d, e := h0, h1, h2, h3, h4

		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = (b & c) | (^b & d)
				k = 0x5A827999
			case i < 40:
				f = b ^ c ^ d
				k = 0x6ED9EBA1
			case i < 60:
				f = (b & c) | (b & d) | (c & d)
				k = 0x8F1BBCDC
			default:
				f = b ^ c ^ d
				k = 0xCA62C1D6
			}
			temp := bits.RotateLeft32(a, 5) + f + e + k + w[i]
			e = d
			d = c
			c = bits.RotateLeft32(b, 30)
			b = a
			a = temp
		}

		h0 += a
		h1 += b
		h2 += c
		h3 += d
		h4 += e
	}

	var digest [20]byte
	binary.BigEndian.PutUint32(digest[0:4], h0)
	binary.BigEndian.PutUint32(digest[4:8], h1)
	binary.BigEndian.PutUint32(digest[8:12], h2)
	binary.BigEndian.PutUint32(digest[12:16], h3)
	binary.BigEndian.PutUint32(digest[16:20], h4)
	return digest
}
