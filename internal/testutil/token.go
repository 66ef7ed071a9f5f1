package testutil

import (
	"fmt"
	"sync"
)

// SequentialTokenGenerator mints "<prefix>-1", "<prefix>-2", ... for
// deterministic session tokens.
//
// Thread-safety: SequentialTokenGenerator is safe for concurrent use via
// internal mutex.
type SequentialTokenGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTokenGenerator creates a generator. An empty prefix
// defaults to "token".
func NewSequentialTokenGenerator(prefix string) *SequentialTokenGenerator {
	if prefix == "" {
		prefix = "token"
	}
	return &SequentialTokenGenerator{prefix: prefix}
}

// Generate returns the next token.
func (g *SequentialTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
