package wire

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/antmesh/knowledge"
)

// DefaultCacheSize is the number of decoded snapshots a Codec keeps.
const DefaultCacheSize = 256

type cacheEntry struct {
	size int
	snap *knowledge.Snapshot
}

// Codec marshals snapshots and caches decoded payloads. It is safe for
// concurrent use.
//
// Snapshots returned by Decode may be shared between callers and must be
// treated as read only.
type Codec struct {
	cache  *lru.Cache[uint64, cacheEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCodec creates a codec whose cache holds up to size payloads. A size of
// zero or less disables caching.
func NewCodec(size int) (*Codec, error) {
	c := &Codec{}
	if size <= 0 {
		return c, nil
	}
	cache, err := lru.New[uint64, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// Encode marshals s.
func (c *Codec) Encode(s *knowledge.Snapshot) ([]byte, error) {
	return Marshal(s)
}

// Decode unmarshals data, serving repeated payloads from the cache. Failed
// decodes are not cached.
func (c *Codec) Decode(data []byte) (*knowledge.Snapshot, error) {
	if c.cache == nil {
		return Unmarshal(data)
	}

	key := xxhash.Sum64(data)
	if e, ok := c.cache.Get(key); ok && e.size == len(data) {
		c.hits.Add(1)
		return e.snap, nil
	}
	c.misses.Add(1)

	s, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cacheEntry{size: len(data), snap: s})
	return s, nil
}

// Hits returns the number of decodes served from the cache.
func (c *Codec) Hits() int64 { return c.hits.Load() }

// Misses returns the number of decodes that had to parse the payload.
func (c *Codec) Misses() int64 { return c.misses.Load() }

// Len returns the number of cached payloads.
func (c *Codec) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
