package uuid

import "crypto/md5"

// Namespace UUIDs defined in RFC 4122 Appendix C for use with NewV3 and
// NewV5.
var (
	NamespaceDNS  = MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	NamespaceURL  = MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	NamespaceOID  = MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")
	NamespaceX500 = MustParse("6ba7b814-9dad-11d1-80b4-00c04fd430c8")
)

// NewV3 generates a name-based (version 3) UUID by hashing the namespace
// and name with MD5, as described in RFC 4122 section 4.3. The same
// namespace and name always produce the same UUID.
func NewV3(ns UUID, name []byte) UUID {
	digest := md5.Sum(hashInput(ns, name))
	return fromDigest(digest[:], VersionNameBasedMD5)
}

// NewV3String generates a name-based (version 3) UUID from a string name,
// hashed as its UTF-8 bytes.
func NewV3String(ns UUID, name string) UUID {
	return NewV3(ns, []byte(name))
}

// NewV5 generates a name-based (version 5) UUID by hashing the namespace
// and name with SHA-1, as described in RFC 4122 section 4.3. The same
// namespace and name always produce the same UUID. RFC 4122 recommends
// version 5 over version 3 for new applications.
func NewV5(ns UUID, name []byte) UUID {
	digest := sha1Sum(hashInput(ns, name))
	return fromDigest(digest[:], VersionNameBasedSHA1)
}

// NewV5String generates a name-based (version 5) UUID from a string name,
// hashed as its UTF-8 bytes.
func NewV5String(ns UUID, name string) UUID {
	return NewV5(ns, []byte(name))
}

// hashInput concatenates the big-endian namespace bytes with the name, the
// hash input layout required by RFC 4122 section 4.3.
func hashInput(ns UUID, name []byte) []byte {
	buf := make([]byte, 0, len(ns)+len(name))
	buf = append(buf, ns[:]...)
	buf = append(buf, name...)
	return buf
}

// fromDigest truncates a hash digest to 16 bytes and stamps the version and
// variant bits.
func fromDigest(digest []byte, version Version) UUID {
	var uuid UUID
	copy(uuid[:], digest)

	uuid[6] = (uuid[6] & 0x0F) | byte(version)<<4
	uuid[8] = (uuid[8] & 0x3F) | 0x80 // variant 10xx xxxx

	return uuid
}
