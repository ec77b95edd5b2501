package identifier

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces ULID primary keys: a millisecond timestamp followed by
// a random suffix, so ids sort lexicographically in creation order. Within a
// single millisecond the entropy source is monotonic, which keeps ordering
// stable for back-to-back inserts.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns a new 26-character Crockford base32 identifier, safe for use
// as a primary key and as a URL path segment.
func (g *Generator) NewID() string {
	// MonotonicEntropy is not safe for concurrent readers
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
