package scanner

import (
	"strings"
	"sync"
)

// Reputation answers whether a digest is known to be malicious. The local
// HashSet is the only built-in implementation; a richer external lookup
// service can be plugged in behind the same interface.
type Reputation interface {
	IsKnownBad(digest string) bool
}

// HashSet is a mutable, case-insensitive set of known-bad digests.
type HashSet struct {
	mu     sync.RWMutex
	hashes map[string]struct{}
}

func NewHashSet(digests []string) *HashSet {
	hs := &HashSet{hashes: make(map[string]struct{}, len(digests))}
	for _, d := range digests {
		hs.hashes[strings.ToLower(d)] = struct{}{}
	}
	return hs
}

// Add records a digest as known bad.
func (hs *HashSet) Add(digest string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.hashes[strings.ToLower(digest)] = struct{}{}
}

func (hs *HashSet) IsKnownBad(digest string) bool {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	_, ok := hs.hashes[strings.ToLower(digest)]
	return ok
}
