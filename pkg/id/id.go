// Package id generates the identifiers attached to parsed trades.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out ULIDs. IDs generated in the same millisecond stay
// lexicographically increasing, so trade IDs sort in parse order.
type Generator struct {
	mu    sync.Mutex
	mono  io.Reader
	clock func() time.Time
}

// NewGenerator returns a Generator whose entropy comes from seed and whose
// timestamps come from clock. A nil clock uses time.Now.
func NewGenerator(seed int64, clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{
		mono:  ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		clock: clock,
	}
}

// New returns the next ULID string.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.clock().UTC()), g.mono)
	if err != nil {
		// Only possible if the monotonic entropy overflows within one millisecond.
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(cryptoSeed(), nil)

// New returns a ULID from the process-wide generator.
func New() string {
	return std.New()
}

func cryptoSeed() int64 {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}
