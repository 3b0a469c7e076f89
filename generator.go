package uuid

import (
	"io"
	"sync"
)

// Generator produces UUIDs of all supported versions. It is safe for
// concurrent use: the random source and the monotonic state shared by the
// time-based versions are guarded by a mutex.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp uint64
	clockSeq      uint16 // 12-bit counter for sub-millisecond ordering of v7
	randReader    io.Reader
}

// NewGenerator creates a new generator backed by the secure random source.
func NewGenerator() *Generator {
	return &Generator{
		randReader: SecureSource(),
	}
}

// NewGeneratorWithReader creates a new generator with a custom random source.
// This is primarily useful for testing with deterministic random sources.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{
		randReader: r,
	}
}

// SetRandomSource replaces the generator's random source. Passing nil
// restores the secure default. The swap takes effect for all subsequent
// generations; in-flight calls keep the source they started with.
func (g *Generator) SetRandomSource(r io.Reader) {
	if r == nil {
		r = SecureSource()
	}
	g.mu.Lock()
	g.randReader = r
	g.mu.Unlock()
}

// source returns the generator's current random source.
func (g *Generator) source() io.Reader {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.randReader
}

// Must is a helper that wraps a call to a function returning (UUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = uuid.Must(uuid.NewV4())
func Must(uuid UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return uuid
}

// defaultGenerator is the package-level generator used by the New* functions.
var defaultGenerator = NewGenerator()

// SetRandomSource replaces the random source of the default generator.
// Passing nil restores the secure default.
func SetRandomSource(r io.Reader) {
	defaultGenerator.SetRandomSource(r)
}

// New generates a new random (version 4) UUID using the default generator.
func New() (UUID, error) {
	return defaultGenerator.NewV4()
}

// NewV1 generates a new time-based (version 1) UUID using the default generator.
func NewV1() (UUID, error) {
	return defaultGenerator.NewV1()
}

// NewV4 generates a new random (version 4) UUID using the default generator.
func NewV4() (UUID, error) {
	return defaultGenerator.NewV4()
}

// NewV7 generates a new time-sorted (version 7) UUID using the default generator.
func NewV7() (UUID, error) {
	return defaultGenerator.NewV7()
}
