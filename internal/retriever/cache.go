package retriever

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

type cachedResponse struct {
	resp      *Response
	expiresAt time.Time
}

// queryCache memoizes search responses per snapshot version. Publishing
// a new snapshot invalidates everything at once; individual entries also
// expire on a TTL so a long-lived snapshot does not pin stale hot
// queries forever.
type queryCache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, cachedResponse]
	ttl     time.Duration
	version int64
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	entries, err := lru.New[string, cachedResponse](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &queryCache{entries: entries, ttl: ttl}
}

func (c *queryCache) get(version int64, opts Options) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version {
		c.entries.Purge()
		c.version = version
		return nil, false
	}

	entry, ok := c.entries.Get(cacheKey(opts))
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(cacheKey(opts))
		return nil, false
	}
	return entry.resp, true
}

func (c *queryCache) put(version int64, opts Options, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version {
		c.entries.Purge()
		c.version = version
	}
	c.entries.Add(cacheKey(opts), cachedResponse{
		resp:      resp,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// cacheKey hashes the full option set so distinct queries never share an
// entry.
func cacheKey(opts Options) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d|%g|%s",
		opts.Query, opts.Language, opts.Kind, opts.TopK, opts.MinImportance, opts.Complexity)))
	return hex.EncodeToString(sum[:])
}
