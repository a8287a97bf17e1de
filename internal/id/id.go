// Package id provides identifier generation for balancers, nodes, and
// metadata entries. Generation is behind an interface so tests can assert
// deterministic ids.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// Generator produces identifiers for newly created entities.
type Generator interface {
	// BalancerID returns an id for a new load balancer.
	BalancerID() string
	// NodeID returns a numeric id for a new node.
	NodeID() int
	// MetaID returns a numeric id for a new metadata entry.
	MetaID() int
}

// Random generates ids the way the real service appears to: UUIDs for
// balancers and small random integers for nodes and metadata entries.
type Random struct{}

// NewRandom creates a Random generator.
func NewRandom() *Random { return &Random{} }

// BalancerID returns a UUID v4 string.
func (*Random) BalancerID() string { return uuid.NewString() }

// NodeID returns a random id below 999999.
func (*Random) NodeID() int { return randBelow(999999) }

// MetaID returns a random id below 999.
func (*Random) MetaID() int { return randBelow(999) }

func randBelow(n int64) int {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken.
		panic(err)
	}
	return int(v.Int64())
}

// Sequence is a deterministic generator for tests: balancer ids are
// "<prefix>-1", "<prefix>-2", ... and node/meta ids count up from 1.
type Sequence struct {
	mu       sync.Mutex
	prefix   string
	balancer int
	node     int
	meta     int
}

// NewSequence creates a Sequence generator with the given balancer id
// prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// BalancerID returns the next sequential balancer id.
func (s *Sequence) BalancerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balancer++
	return fmt.Sprintf("%s-%d", s.prefix, s.balancer)
}

// NodeID returns the next sequential node id.
func (s *Sequence) NodeID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.node++
	return s.node
}

// MetaID returns the next sequential metadata id.
func (s *Sequence) MetaID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta++
	return s.meta
}

var _ Generator = (*Random)(nil)
var _ Generator = (*Sequence)(nil)
