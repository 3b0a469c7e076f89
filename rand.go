package uuid

import (
	cryptorand "crypto/rand"
	"io"
	mathrand "math/rand"
	"sync"
	"time"
)

// SecureSource returns the cryptographically secure random source backed by
// crypto/rand. It is the default source of every generator and is safe for
// concurrent use.
func SecureSource() io.Reader {
	return cryptorand.Reader
}

// FastSource returns a non-cryptographic pseudo-random source seeded from the
// current time. It is considerably faster than SecureSource but its output is
// predictable; use it only for tests or bulk generation of identifiers with
// no security requirements.
//
// The returned source is safe for concurrent use.
func FastSource() io.Reader {
	return &fastSource{
		rng: mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// fastSource adapts a math/rand generator to io.Reader. math/rand generators
// are not safe for concurrent use, so reads are serialized with a mutex.
type fastSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

func (s *fastSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Read(p)
}
