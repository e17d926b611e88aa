package security

import (
	"strings"
	"sync"

	"github.com/erraggy/oasexplorer/document"
)

type cacheKey struct {
	doc     *document.Document
	method  string
	path    string
	webhook bool
}

// Cache memoizes privacy per operation. Security is fixed by the document, so an
// entry stays valid until the document is replaced; owners call Clear when that
// happens.
//
// A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]bool
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]bool)}
}

// IsPrivate reports whether the operation at method and path in doc requires
// authentication, computing it on first use.
func (c *Cache) IsPrivate(doc *document.Document, method, path string, webhook bool) bool {
	key := cacheKey{doc: doc, method: strings.ToUpper(method), path: path, webhook: webhook}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := ForOperation(doc, method, path, webhook).Private()
	c.entries[key] = v
	return v
}

// Invalidate drops the entries for method and path in every document.
func (c *Cache) Invalidate(method, path string) {
	method = strings.ToUpper(method)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.method == method && k.path == path {
			delete(c.entries, k)
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Counters returns the hit and miss counts since creation.
func (c *Cache) Counters() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
