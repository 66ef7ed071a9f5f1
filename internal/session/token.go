package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// TokenGenerator mints session tokens.
type TokenGenerator interface {
	Generate() string
}

// tokenBytes gives 192 bits of entropy, 32 characters once encoded.
const tokenBytes = 24

// RandomTokenGenerator mints URL-safe tokens from crypto/rand.
//
// Thread-safety: RandomTokenGenerator is stateless and safe for concurrent use.
type RandomTokenGenerator struct{}

// Generate returns a new unpadded base64url token.
//
// Panics if the system random source fails.
func (RandomTokenGenerator) Generate() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("session: read random token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// FixedTokenGenerator returns predetermined tokens in order. It exists for
// deterministic tests and scenario runs.
//
// Thread-safety: FixedTokenGenerator is safe for concurrent use via internal mutex.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator creates a generator that returns tokens in order.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics if all tokens have been consumed.
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedTokenGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// Clock supplies submission timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
