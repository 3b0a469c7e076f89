// Package uuid provides a lightweight and efficient implementation of Universally Unique Identifiers (UUIDs)
// in Go, covering versions 1, 3, 4, 5 and 7 of RFC 4122 / RFC 9562.
//
// A UUID is an immutable 128-bit value. This package represents it as a
// 16-byte big-endian array and exposes constructors for every supported
// version:
//   - Version 1: time-based, built from the wall clock, a random clock
//     sequence and a random node identifier
//   - Version 3: name-based, MD5 hash of a namespace and a name
//   - Version 4: random, 122 bits of entropy
//   - Version 5: name-based, SHA-1 hash of a namespace and a name
//   - Version 7: time-ordered, naturally sortable by creation time
//
// Basic Usage:
//
//	// Generate a random UUID (version 4)
//	id, err := uuid.NewV4()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.String())
//
//	// Parse a UUID from string
//	id, err := uuid.Parse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Deterministic name-based UUID
//	id := uuid.NewV5String(uuid.NamespaceDNS, "www.example.com")
//
//	// Get the timestamp of a time-based UUID
//	ticks, err := id.Timestamp() // version 1 only
//	t, err := id.Time()          // versions 1 and 7
//
// Custom Generator:
//
//	// Create a custom generator for better performance in tight loops
//	gen := uuid.NewGenerator()
//	for i := 0; i < 1000; i++ {
//	    id, err := gen.NewV4()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // Use id...
//	}
//
// Random Source:
//
// Generators read from a swappable random source. The default is the
// cryptographically secure SecureSource; FastSource trades security for
// speed and suits tests and bulk generation of non-sensitive identifiers.
// Swap sources before concurrent generation begins:
//
//	uuid.SetRandomSource(uuid.FastSource())
//
// Thread Safety:
//
// All operations are thread-safe. The default generator can be used concurrently
// from multiple goroutines without additional synchronization.
//
// Standards Compliance:
//
// This implementation follows RFC 4122 and RFC 9562 specifications for UUIDs:
//   - Canonical 8-4-4-4-12 lowercase hex encoding, plus a compact 32-digit form
//   - Big-endian 16-byte binary encoding
//   - Version in the high nibble of byte 6, variant in the top bits of byte 8
//   - Well-known DNS, URL, OID and X.500 namespaces for name-based UUIDs
package uuid
