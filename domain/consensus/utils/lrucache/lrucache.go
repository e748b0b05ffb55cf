package lrucache

import (
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

// LRUCache is a least-recently-used cache for block headers
// indexed by BlockHeaderHash
type LRUCache struct {
	cache    map[externalapi.BlockHeaderHash]*externalapi.BlockHeader
	capacity int
}

// New creates a new LRUCache
func New(capacity int) *LRUCache {
	return &LRUCache{
		cache:    make(map[externalapi.BlockHeaderHash]*externalapi.BlockHeader, capacity+1),
		capacity: capacity,
	}
}

// Add adds an entry to the LRUCache
func (c *LRUCache) Add(key *externalapi.BlockHeaderHash, value *externalapi.BlockHeader) {
	if c.capacity <= 0 {
		return
	}
	c.cache[*key] = value

	if len(c.cache) > c.capacity {
		c.evictRandom(key)
	}
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *LRUCache) Get(key *externalapi.BlockHeaderHash) (*externalapi.BlockHeader, bool) {
	value, ok := c.cache[*key]
	if !ok {
		return nil, false
	}
	return value, true
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *externalapi.BlockHeaderHash) bool {
	_, ok := c.cache[*key]
	return ok
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache) Remove(key *externalapi.BlockHeaderHash) {
	delete(c.cache, *key)
}

// Len returns the number of entries in the cache
func (c *LRUCache) Len() int {
	return len(c.cache)
}

// evictRandom removes an arbitrary entry other than keep.
func (c *LRUCache) evictRandom(keep *externalapi.BlockHeaderHash) {
	for key := range c.cache {
		if key == *keep {
			continue
		}
		delete(c.cache, key)
		return
	}
}
